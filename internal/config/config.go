package config

type Config struct {
	DatabaseURL string `flag:"database-url"`
	ListenAddr  string `flag:"listen-addr"`
	MetricsAddr string `flag:"metrics-addr"`
	LogLevel    string `flag:"log-level"`
}
