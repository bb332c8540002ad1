package recordperformancereview

import "time"

type Config struct {
	Timeout      time.Duration
	MaxScore     float64
	HistoryLimit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		MaxScore:     10,
		HistoryLimit: 10,
	}
}
