package signer

// Config represents signer configuration
type Config struct {
	// KeystorePath is the path to the keystore file
	KeystorePath string `yaml:"keystore_path"`
	// Password is the password to decrypt the keystore
	Password string `yaml:"password"`
	// PrivateKey is a raw hex key, used when no keystore is configured
	PrivateKey string `yaml:"private_key"`
}

// IsValid checks if the config names a usable key source
func (c *Config) IsValid() bool {
	return (c.KeystorePath != "" && c.Password != "") || c.PrivateKey != ""
}

// Load builds a signer from the configured key source
func (c *Config) Load() (*LocalSigner, error) {
	if c.KeystorePath != "" {
		return NewLocalSigner(c.KeystorePath, c.Password)
	}
	return NewLocalSignerFromHex(c.PrivateKey)
}
