package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Redis        Redis        `mapstructure:",squash"`
	Bling        Bling        `mapstructure:",squash"`
	MercadoLivre MercadoLivre `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	OrderSync    OrderSync    `mapstructure:",squash"`
	Webhook      Webhook      `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Redis struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

// Bling guarda os endpoints da API v3 do Bling. As credenciais OAuth
// (client id/secret e tokens) vivem no banco, não na configuração.
type Bling struct {
	BaseURL     string `mapstructure:"bling_base_url"`
	TokenURL    string `mapstructure:"bling_token_url"`
	AuthURL     string `mapstructure:"bling_auth_url"`
	RedirectURI string `mapstructure:"bling_redirect_uri"`
}

type MercadoLivre struct {
	BaseURL     string `mapstructure:"ml_base_url"`
	TokenURL    string `mapstructure:"ml_token_url"`
	AuthURL     string `mapstructure:"ml_auth_url"`
	RedirectURI string `mapstructure:"ml_redirect_uri"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type OrderSync struct {
	CronSchedule        string `mapstructure:"order_sync_cron"`
	LookbackDays        int    `mapstructure:"order_sync_lookback_days"`
	PageSize            int    `mapstructure:"order_sync_page_size"`
	RequestDelaySeconds int    `mapstructure:"order_sync_request_delay_seconds"`
	Enabled             bool   `mapstructure:"order_sync_enabled"`
}

type Webhook struct {
	Secret string `mapstructure:"webhook_secret"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/fabrica")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("BLING_BASE_URL", "https://api.bling.com.br/Api/v3")
	viper.SetDefault("BLING_TOKEN_URL", "https://api.bling.com.br/Api/v3/oauth/token")
	viper.SetDefault("BLING_AUTH_URL", "https://api.bling.com.br/Api/v3/oauth/authorize")
	viper.SetDefault("BLING_REDIRECT_URI", "http://localhost:8000/v1/oauth/bling/callback")

	viper.SetDefault("ML_BASE_URL", "https://api.mercadolibre.com")
	viper.SetDefault("ML_TOKEN_URL", "https://api.mercadolibre.com/oauth/token")
	viper.SetDefault("ML_AUTH_URL", "https://auth.mercadolivre.com.br/authorization")
	viper.SetDefault("ML_REDIRECT_URI", "http://localhost:8000/v1/oauth/mercado_livre/callback")

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	// Defaults para a sincronização de pedidos
	viper.SetDefault("ORDER_SYNC_CRON", "0 3 * * *")        // Todos os dias às 3h da manhã
	viper.SetDefault("ORDER_SYNC_LOOKBACK_DAYS", 30)        // Janela inicial quando a base está vazia
	viper.SetDefault("ORDER_SYNC_PAGE_SIZE", 100)           // Pedidos por página na listagem
	viper.SetDefault("ORDER_SYNC_REQUEST_DELAY_SECONDS", 0) // Pausa entre buscas de detalhe
	viper.SetDefault("ORDER_SYNC_ENABLED", false)           // Habilitar sincronização agendada

	viper.SetDefault("WEBHOOK_SECRET", "")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	if config.Webhook.Secret == "" {
		logrus.Warn("WEBHOOK_SECRET não configurado: assinaturas de webhook NÃO serão verificadas")
	}

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
