package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env      string
		LockFile string `mapstructure:"lock_file"`
	} `mapstructure:"app"`

	Telegram struct {
		Token          string
		PollTimeoutSec int `mapstructure:"poll_timeout_sec"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Store struct {
		Path          string
		OrdersSheet   string `mapstructure:"orders_sheet"`
		WarehouseHint string `mapstructure:"warehouse_hint"`
	} `mapstructure:"store"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("telegram.poll_timeout_sec", 30)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("store.orders_sheet", "Заказы")
	v.SetDefault("store.warehouse_hint", "СКЛАД")
	v.SetDefault("app.lock_file", "/tmp/skladbot.lock")

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
