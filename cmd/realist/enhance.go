package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2/app"
	"github.com/dixieflatline76/Realist/config"
	"github.com/dixieflatline76/Realist/pkg/enhance"
	"github.com/dixieflatline76/Realist/pkg/grade"
	"github.com/spf13/cobra"
)

func enhanceCmd() *cobra.Command {
	var in, mode, filter, out string

	cmd := &cobra.Command{
		Use:   "enhance",
		Short: "Enhance one image without opening a window",
		Example: `  realist enhance --in lobby.png
  realist enhance --in lobby.png --mode props --filter warm --out lobby-final.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := enhance.ParseMode(mode)
			if err != nil {
				return err
			}
			b, err := newBackend(config.NewAppConfig(app.NewWithID(config.AppID).Preferences()))
			if err != nil {
				return err
			}
			return runEnhance(cmd.Context(), b, in, m, filter, out)
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "source image")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(enhance.ModeStrict), "enhancement mode: strict or props")
	cmd.Flags().StringVarP(&filter, "filter", "f", grade.NoneID, "color grade applied on export")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output PNG (default: suggested name next to the source)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runEnhance(ctx context.Context, b *backend, in string, mode enhance.Mode, filter, out string) error {
	if err := b.session.SelectFile(in); err != nil {
		return err
	}
	if err := b.session.SetFilter(filter); err != nil {
		return fmt.Errorf("%w (available: %v)", err, b.session.Filters().IDs())
	}
	if _, err := b.session.Enhance(ctx, mode); err != nil {
		return fmt.Errorf("%s: %w", enhance.UserMessage(err), err)
	}

	if out == "" {
		out = filepath.Join(filepath.Dir(in), b.session.ExportFileName())
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := b.session.Export(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
