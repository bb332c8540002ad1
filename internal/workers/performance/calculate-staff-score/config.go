package calculatestaffscore

import "time"

type Config struct {
	Timeout  time.Duration
	MaxScore float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  5 * time.Second,
		MaxScore: 10,
	}
}
