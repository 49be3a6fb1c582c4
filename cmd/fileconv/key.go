package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	fileconv "github.com/nicholasgasior/fileconv-go"
	"github.com/nicholasgasior/fileconv-go/internal/credstore"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored reasoning service API key",
}

var keySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store an API key (read from stdin when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var value string
		if len(args) == 1 {
			value = args[0]
		} else {
			fmt.Fprint(cmd.ErrOrStderr(), "API key: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read key: %w", err)
			}
			value = line
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return errors.New("empty key")
		}
		return withStore(func(s *credstore.Store) error {
			if err := s.Store(fileconv.CredentialKey, value); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "API key saved")
			return nil
		})
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *credstore.Store) error {
			if err := s.Delete(fileconv.CredentialKey); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "API key removed")
			return nil
		})
	},
}

func withStore(fn func(*credstore.Store) error) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	store, err := credstore.Open(s.CredentialsDB)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func init() {
	keyCmd.AddCommand(keySetCmd, keyClearCmd)
	rootCmd.AddCommand(keyCmd)
}
