package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Configはクライアント全体の設定
type Config struct {
	APIBaseURL string // バックエンドのベースURL（/api/v1は付けない）

	StateDir string // トークン等を保存するディレクトリ

	BusinessSlug string // ストアフロント操作の対象テナント（storefront系のみ必須）
}

// Loadは環境変数から読む。.envの読み込みは呼び出し側（main）でやる。
func Load() (Config, error) {
	cfg := Config{
		APIBaseURL:   os.Getenv("API_BASE_URL"),
		StateDir:     os.Getenv("STATE_DIR"),
		BusinessSlug: os.Getenv("BUSINESS_SLUG"),
	}

	//必須チェック
	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("API_BASE_URL is required")
	}

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("STATE_DIR is required (home dir unavailable: %w)", err)
		}
		cfg.StateDir = filepath.Join(home, ".bizdesk")
	}

	return cfg, nil
}

// ダッシュボード側の保存ファイル
func (c Config) DashboardStatePath() string {
	return filepath.Join(c.StateDir, "dashboard.json")
}

// ストアフロント顧客側の保存ファイル
func (c Config) StorefrontStatePath() string {
	return filepath.Join(c.StateDir, "storefront.json")
}
