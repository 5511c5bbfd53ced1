package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eringen/quill"
	"github.com/eringen/quill/docstore"
	"github.com/eringen/quill/media"
)

// loadConfig resolves the server configuration from flags, the environment
// and an optional .env file, in that order of precedence.
func loadConfig(flags *pflag.FlagSet) (quill.Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return quill.Config{}, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return quill.Config{}, fmt.Errorf("bind flags: %w", err)
	}

	port := strings.TrimPrefix(strings.TrimSpace(v.GetString("port")), ":")
	if port == "" {
		port = "4000"
	}

	cfg := quill.Config{
		Addr:      ":" + port,
		DataDir:   v.GetString("data-dir"),
		UploadDir: v.GetString("upload-dir"),
		Storage: docstore.Options{
			Driver:      strings.ToLower(v.GetString("storage-driver")),
			SQLitePath:  v.GetString("sqlite-path"),
			RedisURL:    v.GetString("redis-url"),
			DatabaseURL: v.GetString("database-url"),
		},
		S3: media.S3Config{
			Endpoint:  v.GetString("s3-endpoint"),
			AccessKey: v.GetString("s3-access-key"),
			SecretKey: v.GetString("s3-secret-key"),
			Bucket:    v.GetString("s3-bucket"),
			UseSSL:    v.GetBool("s3-use-ssl"),
			PublicURL: v.GetString("s3-public-url"),
		},
		LogMode:          v.GetString("log-mode"),
		LogCapacity:      v.GetInt("log-capacity"),
		CORSOrigins:      splitList(v.GetString("cors-origins")),
		SiteName:         v.GetString("site-name"),
		SiteURL:          v.GetString("site-url"),
		SiteDescription:  v.GetString("site-description"),
		UploadRateLimit:  v.GetInt("upload-rate-limit"),
		UploadRateWindow: time.Minute,
		BodyLimit:        v.GetString("body-limit"),
	}
	if cfg.S3.Endpoint != "" && cfg.S3.Bucket == "" {
		return quill.Config{}, fmt.Errorf("S3_BUCKET is required when S3_ENDPOINT is set")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
