package main

import (
	"fmt"

	"github.com/diewo77/go-orders/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Export or import the company settings as YAML",
	}
	cmd.AddCommand(newSettingsExportCmd(), newSettingsImportCmd())
	return cmd
}

func newSettingsExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := bootstrap()
			if err != nil {
				return err
			}
			defer d.Close()
			s, err := d.settings.Load()
			if err != nil {
				return err
			}
			if s.Design == nil {
				design := s.EffectiveDesign()
				s.Design = &design
			}
			b, err := yaml.Marshal(s)
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}
			return writeOutput(cmd, out, b)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func newSettingsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the settings with a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			var s models.Settings
			if err := yaml.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("decode settings: %w", err)
			}
			d, err := bootstrap()
			if err != nil {
				return err
			}
			defer d.Close()
			if err := d.settings.Save(s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings for %q imported\n", s.CompanyName)
			return nil
		},
	}
}
