package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oukeidos/guini/internal/apperrors"
	"github.com/oukeidos/guini/internal/fieldtype"
	"github.com/oukeidos/guini/internal/form"
	"github.com/oukeidos/guini/internal/scriptconfig"
	"github.com/oukeidos/guini/internal/secrets"
)

var (
	setSecret    = secrets.Set
	deleteSecret = secrets.Delete
	getSecret    = secrets.Get
)

func newSecretCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage (secret) field values in the OS keychain",
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)

	set := &cobra.Command{
		Use:   "set <config.ini> <key>",
		Short: "Store a secret value (prompt only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fd, err := secretField(args[0], args[1])
			if err != nil {
				return err
			}
			if !isTerminal(int(os.Stdin.Fd())) {
				return apperrors.Validation("A terminal is required to enter secret values.", nil)
			}
			value, err := promptSecret(fmt.Sprintf("%s: ", fd.Label))
			if err != nil {
				return fmt.Errorf("error reading value: %w", err)
			}
			if value == "" {
				return apperrors.Validation("A value is required.", nil)
			}
			if err := setSecret(cfg.Path(), fd.Section, fd.Key, value); err != nil {
				return fmt.Errorf("error saving to keychain: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to keychain.\n", fd.Key)
			return nil
		},
	}
	del := &cobra.Command{
		Use:   "delete <config.ini> <key>",
		Short: "Remove a stored secret value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fd, err := secretField(args[0], args[1])
			if err != nil {
				return err
			}
			if err := deleteSecret(cfg.Path(), fd.Section, fd.Key); err != nil {
				return fmt.Errorf("error deleting from keychain: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from keychain.\n", fd.Key)
			return nil
		},
	}
	status := &cobra.Command{
		Use:   "status <config.ini>",
		Short: "Show which secret fields have a stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := scriptconfig.Load(args[0])
			if err != nil {
				return err
			}
			f, err := form.Build(cfg)
			if err != nil {
				return apperrors.Config("", err)
			}
			n := 0
			for _, fd := range f.Fields {
				if fd.Type.Kind != fieldtype.Secret {
					continue
				}
				n++
				state := "Not Found"
				if _, source := getSecret(cfg.Path(), fd.Section, fd.Key, true); source != "" {
					state = "Found (source=" + source + ")"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", fd.Key, state)
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No (secret) fields in this config.")
			}
			return nil
		},
	}
	for _, sub := range []*cobra.Command{set, del, status} {
		sub.SetUsageTemplate(subcommandUsageTemplate)
	}
	cmd.AddCommand(set, del, status)
	return cmd
}

func secretField(path, key string) (*scriptconfig.Config, form.Field, error) {
	cfg, err := scriptconfig.Load(path)
	if err != nil {
		return nil, form.Field{}, err
	}
	f, err := form.Build(cfg)
	if err != nil {
		return nil, form.Field{}, apperrors.Config("", err)
	}
	fd, ok := lookupField(f, strings.TrimSpace(key))
	if !ok {
		return nil, form.Field{}, apperrors.Validation(fmt.Sprintf("Unknown field %q", key), nil)
	}
	if fd.Type.Kind != fieldtype.Secret {
		return nil, form.Field{}, apperrors.Validation(fmt.Sprintf("Field %q is not marked (secret)", key), nil)
	}
	return cfg, fd, nil
}
