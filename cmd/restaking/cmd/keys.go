package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/conr2d/restaking/pkg/signer"
)

var (
	keysDir      string
	keysPassword string
	keysCount    int
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage identity keys",
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate encrypted identity keystores",
	Long: `Generate one or more encrypted keystore files and print the
on-graph identity of each key. The identities can be used directly as
admin or base accounts in operations.`,
	RunE: runKeysGenerate,
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysGenerateCmd)

	keysGenerateCmd.Flags().StringVar(&keysDir, "dir", "keys", "directory to write keystore files to")
	keysGenerateCmd.Flags().StringVar(&keysPassword, "password", "", "password to encrypt the keystores with")
	keysGenerateCmd.Flags().IntVar(&keysCount, "count", 1, "number of keys to generate")
}

func runKeysGenerate(cmd *cobra.Command, args []string) error {
	if keysPassword == "" {
		return fmt.Errorf("--password is required")
	}
	if keysCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}
	if err := os.MkdirAll(keysDir, 0755); err != nil {
		return fmt.Errorf("failed to create keys directory: %w", err)
	}

	ks := keystore.NewKeyStore(keysDir, keystore.StandardScryptN, keystore.StandardScryptP)
	for i := 1; i <= keysCount; i++ {
		privateKey, err := crypto.GenerateKey()
		if err != nil {
			return fmt.Errorf("failed to generate key: %w", err)
		}
		if _, err := ks.ImportECDSA(privateKey, keysPassword); err != nil {
			return fmt.Errorf("failed to import key into keystore: %w", err)
		}

		// The keystore writes a UTC-- file; give it a stable name.
		utcFile, err := findUTCFile(keysDir)
		if err != nil {
			return err
		}
		newPath := filepath.Join(keysDir, fmt.Sprintf("identity%d.key.json", i))
		if err := os.Rename(utcFile, newPath); err != nil {
			return fmt.Errorf("failed to rename keystore file: %w", err)
		}

		identity := signer.IdentityOf(&privateKey.PublicKey)
		fmt.Printf("Key %d:\n", i)
		fmt.Printf("Keystore: %s\n", newPath)
		fmt.Printf("Identity: %s\n", identity)
		fmt.Println("-------------------")
	}
	return nil
}

func findUTCFile(dir string) (string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if strings.HasPrefix(filepath.Base(f), "UTC--") {
			return f, nil
		}
	}
	return "", fmt.Errorf("could not find generated keystore file in %s", dir)
}
