package model

type Customer struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	CustomerType string `json:"customer_type"`
	Category     string `json:"category"`
	GSTIN        string `json:"gstin"`
	Country      string `json:"country"`
	State        string `json:"state"`
	District     string `json:"district"`
	Pin          int64  `json:"pin"`
	Address      string `json:"address"`
	Note         string `json:"note"`
	Date         string `json:"date"`
}
