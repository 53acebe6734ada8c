package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Booking  BookingConfig
	VNPay    VNPayConfig
	OTP      OTPConfig
	Session  SessionConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	Enabled  bool
}

// BookingConfig holds the scheduling policy parameters consumed by the
// availability and booking services.
type BookingConfig struct {
	GranularityMinutes    int
	MinLeadTimeMinutes    int
	RescheduleCutoffHours int
	CancelCutoffHours     int
	LockTimeoutSeconds    int
	CreateRetryAttempts   int
}

type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

type SessionConfig struct {
	ExpiryHours int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("SLOT_GRANULARITY_MINUTES", 15)
	viper.SetDefault("MIN_LEAD_TIME_MINUTES", 0)
	viper.SetDefault("RESCHEDULE_CUTOFF_HOURS", 4)
	viper.SetDefault("CANCEL_CUTOFF_HOURS", 2)
	viper.SetDefault("LOCK_TIMEOUT_SECONDS", 3)
	viper.SetDefault("CREATE_RETRY_ATTEMPTS", 3)
	viper.SetDefault("OTP_EXPIRY_MINUTES", 10)
	viper.SetDefault("OTP_LENGTH", 6)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("VNPAY_PAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html")
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			Enabled:  viper.GetBool("REDIS_ENABLED"),
		},
		Booking: BookingConfig{
			GranularityMinutes:    viper.GetInt("SLOT_GRANULARITY_MINUTES"),
			MinLeadTimeMinutes:    viper.GetInt("MIN_LEAD_TIME_MINUTES"),
			RescheduleCutoffHours: viper.GetInt("RESCHEDULE_CUTOFF_HOURS"),
			CancelCutoffHours:     viper.GetInt("CANCEL_CUTOFF_HOURS"),
			LockTimeoutSeconds:    viper.GetInt("LOCK_TIMEOUT_SECONDS"),
			CreateRetryAttempts:   viper.GetInt("CREATE_RETRY_ATTEMPTS"),
		},
		VNPay: VNPayConfig{
			TmnCode:    viper.GetString("VNPAY_TMN_CODE"),
			HashSecret: viper.GetString("VNPAY_HASH_SECRET"),
			PayURL:     viper.GetString("VNPAY_PAY_URL"),
			ReturnURL:  viper.GetString("VNPAY_RETURN_URL"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        viper.GetInt("OTP_LENGTH"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
	}

	return config, nil
}
