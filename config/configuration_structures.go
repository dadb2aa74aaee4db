package config

type ServerConfig struct {
	Addr          string `yaml:"addr"`
	PublicURL     string `yaml:"public_url"`
	MaxUploadSize int64  `yaml:"max_upload_size"`
}

type DatabaseConfig struct {
	DSN           string `yaml:"dsn"`
	RunMigrations bool   `yaml:"run_migrations"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// S3Config : local=true означает MinIO с path-style адресацией и статическими ключами
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Local     bool   `yaml:"local"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// StorageConfig : где хранятся загруженные файлы ("disk" или "s3")
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Root   string `yaml:"root"`
}

type JWTConfig struct {
	SecretKey       string `yaml:"secret_key"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
}

// AdminConfig : явный список email, которые получают роль admin при регистрации
type AdminConfig struct {
	Emails []string `yaml:"emails"`
}

// PinConfig : политика PIN-кодов и ограничение попыток ввода
type PinConfig struct {
	MinLength   int    `yaml:"min_length"`
	MaxLength   int    `yaml:"max_length"`
	MaxAttempts int64  `yaml:"max_attempts"`
	Lockout     string `yaml:"lockout"`
}

type TTL struct {
	PresignedURL int `yaml:"presigned_url"`
}

type LoggerConfig struct {
	Mode string `yaml:"mode"`
}
