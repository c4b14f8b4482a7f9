package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"bizdesk/internal/api"
	"bizdesk/internal/cartstore"
	"bizdesk/internal/checkout"
	"bizdesk/internal/config"
	"bizdesk/internal/domain/model"
	"bizdesk/internal/listview"
	"bizdesk/internal/session"
	"bizdesk/internal/transport"
)

// appは配線済みのクライアント一式。
// ダッシュボード運営者とストアフロント顧客は別トークンペアで共存する。
type app struct {
	cfg config.Config

	tokenClient *api.TokenClient

	dashTokens *session.TokenStore
	dashAPI    *api.Client

	storeTokens *session.TokenStore
	storeAPI    *api.Client
}

func newApp(cfg config.Config) *app {
	tc := api.NewTokenClient(cfg.APIBaseURL)

	dashTokens := session.NewTokenStore(session.NewFileStore(cfg.DashboardStatePath()), session.Dashboard)
	dashRT := transport.NewAuthTransport(nil, dashTokens, transport.RefreshFunc(tc.Refresh))
	dashRT.OnLogout = func() {
		fmt.Fprintln(os.Stderr, "session expired, please log in again")
	}

	storeTokens := session.NewTokenStore(session.NewFileStore(cfg.StorefrontStatePath()), session.Storefront)
	storeRT := transport.NewAuthTransport(nil, storeTokens, transport.RefreshFunc(tc.RefreshCustomer))
	storeRT.OnLogout = func() {
		fmt.Fprintln(os.Stderr, "customer session expired, please log in again")
	}

	return &app{
		cfg:         cfg,
		tokenClient: tc,
		dashTokens:  dashTokens,
		dashAPI:     api.New(cfg.APIBaseURL, dashRT),
		storeTokens: storeTokens,
		storeAPI:    api.New(cfg.APIBaseURL, storeRT),
	}
}

func main() {
	//.envは無ければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	a := newApp(cfg)
	ctx := context.Background()

	switch os.Args[1] {
	case "login":
		err = a.cmdLogin(ctx, os.Args[2:])
	case "logout":
		err = a.dashTokens.Clear()
	case "orders":
		err = a.cmdOrders(ctx, os.Args[2:])
	case "invoices":
		err = a.cmdInvoices(ctx, os.Args[2:])
	case "products":
		err = a.cmdProducts(ctx)
	case "customers":
		err = a.cmdCustomers(ctx)
	case "store":
		err = a.cmdStore(ctx, os.Args[2:])
	case "cart":
		err = a.cmdCart(ctx, os.Args[2:])
	case "checkout":
		err = a.cmdCheckout(ctx)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: bizdesk <command>

  login -u <user> -p <password>   ダッシュボードにログイン
  logout
  orders list|export|set-status
  invoices list|export
  products
  customers
  store login|otp|verify|items|orders
  cart [add|update]
  checkout`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "bizdesk:", err)
	os.Exit(1)
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("u", "", "username")
	pass := fs.String("p", "", "password")
	_ = fs.Parse(args)

	pair, err := a.tokenClient.Obtain(ctx, *user, *pass)
	if err != nil {
		return err
	}
	if err := a.dashTokens.SetPair(pair); err != nil {
		return err
	}
	if err := a.dashTokens.SetDisplayName(*user); err != nil {
		return err
	}
	fmt.Println("logged in as", *user)
	return nil
}

func (a *app) cmdOrders(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	status := fs.String("status", listview.FilterAll, "status filter")
	payment := fs.String("payment", listview.FilterAll, "payment filter")
	search := fs.String("search", "", "search order # or customer")
	out := fs.String("o", "orders.csv", "export file")
	orderNumber := fs.String("order", "", "order number")
	newStatus := fs.String("set", "", "new status")
	_ = fs.Parse(args)

	view := listview.NewOrders(a.dashAPI)
	if err := view.Load(ctx); err != nil {
		return err
	}
	view.SetStatusFilter(*status)
	view.SetPaymentFilter(*payment)
	view.SetSearch(*search)

	switch sub {
	case "list":
		st := view.Stats()
		fmt.Printf("total=%d pending=%d processing=%d shipped=%d completed=%d\n",
			st.Total, st.Pending, st.Processing, st.Shipped, st.Completed)
		for _, r := range view.Visible() {
			fmt.Printf("%-16s %-20s %-10s %10s %-8s %s\n",
				r.OrderNumber, r.CustomerName, r.Date, r.TotalAmount, r.PaymentStatus, r.Status)
		}
		return nil

	case "export":
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := view.ExportCSV(f); err != nil {
			return err
		}
		fmt.Println("exported to", *out)
		return nil

	case "set-status":
		if *orderNumber == "" || *newStatus == "" {
			return errors.New("orders set-status needs -order and -set")
		}
		return view.UpdateStatus(ctx, *orderNumber, model.OrderStatus(*newStatus))

	default:
		return fmt.Errorf("unknown orders subcommand %q", sub)
	}
}

func (a *app) cmdInvoices(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("invoices", flag.ExitOnError)
	status := fs.String("status", listview.FilterAll, "status filter")
	out := fs.String("o", "invoices.csv", "export file")
	_ = fs.Parse(args)

	view := listview.NewInvoices(a.dashAPI)
	if err := view.Load(ctx); err != nil {
		return err
	}
	view.SetStatusFilter(*status)

	switch sub {
	case "list":
		for _, inv := range view.Visible() {
			fmt.Printf("%-12s %-20s %-10s %10s %s\n",
				inv.InvoiceID, inv.CustomerName, inv.Date, inv.NetPayable, inv.Status)
		}
		return nil
	case "export":
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := view.ExportCSV(f); err != nil {
			return err
		}
		fmt.Println("exported to", *out)
		return nil
	default:
		return fmt.Errorf("unknown invoices subcommand %q", sub)
	}
}

func (a *app) cmdProducts(ctx context.Context) error {
	products, err := a.dashAPI.ListProducts(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Printf("%-6d %-30s %-15s %10s stock=%d\n", p.ID, p.ItemName, p.Category, p.BasePrice, p.Quantity)
	}
	return nil
}

func (a *app) cmdCustomers(ctx context.Context) error {
	customers, err := a.dashAPI.ListCustomers(ctx)
	if err != nil {
		return err
	}
	for _, cu := range customers {
		fmt.Printf("%-6d %-24s %-28s %s\n", cu.ID, cu.Name, cu.Email, cu.Phone)
	}
	return nil
}

func (a *app) cmdStore(ctx context.Context, args []string) error {
	if a.cfg.BusinessSlug == "" {
		return errors.New("BUSINESS_SLUG is required for store commands")
	}
	if len(args) == 0 {
		return errors.New("store needs a subcommand")
	}
	sub := args[0]
	args = args[1:]

	fs := flag.NewFlagSet("store", flag.ExitOnError)
	email := fs.String("email", "", "customer email")
	pass := fs.String("p", "", "password")
	otp := fs.String("otp", "", "one time password")
	_ = fs.Parse(args)

	slug := a.cfg.BusinessSlug

	switch sub {
	case "login":
		auth, err := a.storeAPI.CustomerLogin(ctx, slug, *email, *pass)
		if err != nil {
			return err
		}
		return a.saveCustomerAuth(auth, *email)

	case "otp":
		return a.storeAPI.CustomerRequestLoginOTP(ctx, slug, *email)

	case "verify":
		auth, err := a.storeAPI.CustomerVerifyLoginOTP(ctx, slug, *email, *otp)
		if err != nil {
			return err
		}
		return a.saveCustomerAuth(auth, *email)

	case "items":
		items, err := a.storeAPI.StorefrontItems(ctx, slug)
		if err != nil {
			return err
		}
		for _, p := range items {
			fmt.Printf("%-6d %-30s %10s\n", p.ID, p.ItemName, p.BasePrice)
		}
		return nil

	case "orders":
		orders, err := a.storeAPI.CustomerOrders(ctx)
		if err != nil {
			return err
		}
		for _, o := range orders {
			fmt.Printf("%-16s %-10s %10s %s\n", o.OrderNumber, o.Date, o.TotalAmount, o.Status)
		}
		return nil

	default:
		return fmt.Errorf("unknown store subcommand %q", sub)
	}
}

func (a *app) saveCustomerAuth(auth api.CustomerAuth, fallbackName string) error {
	if err := a.storeTokens.SetPair(auth.TokenPair()); err != nil {
		return err
	}
	name := auth.Name
	if name == "" {
		name = fallbackName
	}
	return a.storeTokens.SetDisplayName(name)
}

func (a *app) cmdCart(ctx context.Context, args []string) error {
	store := cartstore.New(a.storeAPI, a.storeTokens)

	sub := "view"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("cart", flag.ExitOnError)
	item := fs.Int64("item", 0, "item id")
	qty := fs.Int64("qty", 1, "quantity")
	action := fs.String("action", "increase", "increase|decrease|remove")
	_ = fs.Parse(args)

	switch sub {
	case "view":
		//表示するだけ
	case "add":
		if err := store.AddItem(ctx, *item, *qty); err != nil {
			return err
		}
	case "update":
		if err := store.UpdateQuantity(ctx, *item, model.CartItemAction(*action)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown cart subcommand %q", sub)
	}

	if err := store.Fetch(ctx); err != nil {
		return err
	}
	cart := store.Cart()
	if cart == nil || cart.Empty() {
		fmt.Println("your cart is empty")
		return nil
	}
	for _, it := range cart.Items {
		fmt.Printf("%-6d %-30s x%-4d @%-10s %10s\n", it.Item, it.ItemName, it.Quantity, it.Price(), it.Subtotal)
	}
	fmt.Printf("%47s %10s\n", "total:", cart.TotalAmount)
	return nil
}

func (a *app) cmdCheckout(ctx context.Context) error {
	flow := checkout.NewFlow(a.storeAPI, a.storeTokens)

	nav, err := flow.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to load checkout preview: %w", err)
	}
	if nav == checkout.NavStorefront {
		return errors.New("not logged in to the store, run: bizdesk store login")
	}

	preview, _ := flow.Preview()
	fmt.Printf("customer: %s <%s> %s\n", preview.Customer.Name, preview.Customer.Email, preview.Customer.Phone)
	for _, it := range preview.Items {
		fmt.Printf("  %d x %-30s %10s\n", it.Qty, it.Name, it.Subtotal)
	}
	fmt.Printf("total: %s\n", preview.TotalAmount)

	nav, err = flow.PlaceOrder(ctx, model.PaymentMethodCash)
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}
	if nav == checkout.NavOrderHistory {
		fmt.Println("order placed, see: bizdesk store orders")
	}
	return nil
}
