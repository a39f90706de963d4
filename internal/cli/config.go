package cli

import (
	"os"
	"path/filepath"
)

const (
	ownerTokenFile = "owner_token"
	adminTokenFile = "admin_token"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	Address    string
	OwnerToken string
	AdminToken string
	TokenDir   string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("SKIRMISH_SERVER", "http://localhost:8080"),
		Address:    os.Getenv("SKIRMISH_ADDRESS"),
		OwnerToken: os.Getenv("SKIRMISH_OWNER_TOKEN"),
		AdminToken: os.Getenv("SKIRMISH_ADMIN_TOKEN"),
		TokenDir:   getEnvOrDefault("SKIRMISH_TOKEN_DIR", defaultTokenDir()),
		Output:     "text",
		Verbose:    false,
	}
}

// LoadTokens loads tokens from the token directory for any not already set
func (c *Config) LoadTokens() error {
	if c.OwnerToken == "" {
		token, err := readTokenFile(filepath.Join(c.TokenDir, ownerTokenFile))
		if err != nil {
			return err
		}
		c.OwnerToken = token
	}
	if c.AdminToken == "" {
		token, err := readTokenFile(filepath.Join(c.TokenDir, adminTokenFile))
		if err != nil {
			return err
		}
		c.AdminToken = token
	}
	return nil
}

// SaveTokens stores both capability tokens in the token directory. The
// tokens are shown exactly once by the server, so losing them means losing
// the account.
func (c *Config) SaveTokens(ownerToken, adminToken string) error {
	c.OwnerToken = ownerToken
	c.AdminToken = adminToken

	if err := os.MkdirAll(c.TokenDir, 0700); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(c.TokenDir, ownerTokenFile), []byte(ownerToken), 0600); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.TokenDir, adminTokenFile), []byte(adminToken), 0600)
}

func readTokenFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil // No token file is fine
		}
		return "", err
	}
	return string(data), nil
}

func defaultTokenDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skirmish"
	}
	return filepath.Join(home, ".skirmish")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
