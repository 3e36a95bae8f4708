package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendLocal      = "local"
	BackendCloudinary = "cloudinary"
	BackendMinio      = "minio"
)

type CloudinarySettings struct {
	CloudName string
	APIKey    string
	APISecret string
}

type MinioSettings struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	PublicURL string
}

type Settings struct {
	AppEnv        string
	ServerPort    int
	PublicBaseURL string

	UploadDir      string
	StorageBackend string
	PathPrefix     string
	Namespace      string
	Cloudinary     CloudinarySettings
	Minio          MinioSettings

	FallbackPlaceholders []string
	FallbackMinBytes     int64
	ProxyMinBytes        int64
	ProxyPlaceholderFile string
	KnownMissingFiles    []string
	DevHosts             []string

	UploadMaxBytes        int64
	ProfileUploadMaxBytes int64
	// TrustProxyHeaders lets X-Forwarded-Proto/Host pick the origin of stored local URLs.
	TrustProxyHeaders bool

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	MediaCacheTTL time.Duration

	JWTPublicKey string
	JWTIssuer    string
	JWTAudience  string
	// JWTRequiredRoles restricts mutating routes to tokens carrying one of them.
	JWTRequiredRoles []string
}

func (s *Settings) IsDevelopment() bool {
	return s.AppEnv == "" || s.AppEnv == "development"
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	for _, key := range []string{"SERVER_PORT", "UPLOAD_DIR", "STORAGE_BACKEND"} {
		if !v.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	s := &Settings{
		AppEnv:         stringOr(v, "APP_ENV", "development"),
		ServerPort:     v.GetInt("SERVER_PORT"),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		StorageBackend: strings.ToLower(v.GetString("STORAGE_BACKEND")),
		PathPrefix:     stringOr(v, "STORAGE_PATH_PREFIX", "/uploads"),
		Namespace:      stringOr(v, "STORAGE_NAMESPACE", "talkcart"),

		FallbackPlaceholders: listOr(v, "FALLBACK_PLACEHOLDERS", []string{"placeholder.mp4", "talkcart/placeholder.mp4"}),
		FallbackMinBytes:     int64Or(v, "FALLBACK_MIN_BYTES", 100),
		ProxyMinBytes:        int64Or(v, "PROXY_MIN_BYTES", 128),
		ProxyPlaceholderFile: v.GetString("PROXY_PLACEHOLDER_FILE"),
		KnownMissingFiles:    listOr(v, "KNOWN_MISSING_FILES", nil),
		DevHosts:             listOr(v, "DEV_HOSTS", nil),

		UploadMaxBytes:        int64Or(v, "UPLOAD_MAX_MB", 200) << 20,
		ProfileUploadMaxBytes: int64Or(v, "PROFILE_UPLOAD_MAX_MB", 15) << 20,
		TrustProxyHeaders:     v.GetBool("TRUST_PROXY_HEADERS"),

		MongoURI:      v.GetString("MONGO_URI"),
		MongoDatabase: stringOr(v, "MONGO_DATABASE", "talkcart"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		MediaCacheTTL: time.Duration(int64Or(v, "MEDIA_CACHE_TTL", 300)) * time.Second,

		JWTPublicKey: v.GetString("JWT_PUBLIC_KEY"),
		JWTIssuer:    stringOr(v, "JWT_ISSUER", "talkcart-core"),
		JWTAudience:  stringOr(v, "JWT_AUDIENCE", "talkcart-medias"),

		JWTRequiredRoles: listOr(v, "JWT_REQUIRED_ROLES", nil),
	}

	if s.ServerPort <= 0 {
		return nil, fmt.Errorf("SERVER_PORT must be a positive integer")
	}

	s.PublicBaseURL = strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/")
	if s.PublicBaseURL == "" && s.IsDevelopment() {
		s.PublicBaseURL = fmt.Sprintf("http://localhost:%d", s.ServerPort)
	}

	switch s.StorageBackend {
	case BackendLocal:
	case BackendCloudinary:
		for _, key := range []string{"CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET"} {
			if !v.IsSet(key) {
				return nil, fmt.Errorf("%s is required", key)
			}
		}
		s.Cloudinary = CloudinarySettings{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
		}
	case BackendMinio:
		for _, key := range []string{"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET"} {
			if !v.IsSet(key) {
				return nil, fmt.Errorf("%s is required", key)
			}
		}
		s.Minio = MinioSettings{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			PublicURL: v.GetString("MINIO_PUBLIC_URL"),
		}
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be one of %s, %s, %s (got %q)",
			BackendLocal, BackendCloudinary, BackendMinio, s.StorageBackend)
	}

	return s, nil
}

func stringOr(v *viper.Viper, key, def string) string {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		return s
	}
	return def
}

func int64Or(v *viper.Viper, key string, def int64) int64 {
	if !v.IsSet(key) {
		return def
	}
	if n := v.GetInt64(key); n > 0 {
		return n
	}
	return def
}

func listOr(v *viper.Viper, key string, def []string) []string {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
