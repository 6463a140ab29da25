package configs

type Secrets struct {
	// JWTSecret verifies bearer tokens issued by the auth provider (HS256).
	JWTSecret string `yaml:"jwt_secret"`
}
