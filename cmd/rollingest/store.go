package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rollwright/voterroll/internal/common"
	"github.com/rollwright/voterroll/internal/export"
)

var (
	flagExportOut  string
	flagExportXLSX bool
	flagWipeEpic   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the full store to a JSON backup (or XLSX workbook)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := slog.Default()

		cfg := common.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		store, cleanup, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		svc := export.NewService(store, logger)
		var data []byte
		if flagExportXLSX {
			data, err = svc.ExportXLSX(ctx)
		} else {
			data, err = svc.ExportJSON(ctx)
		}
		if err != nil {
			return err
		}

		if flagExportOut == "" || flagExportOut == "-" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(flagExportOut, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %d bytes to %s\n", len(data), flagExportOut)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup.json>",
	Short: "Upsert a JSON backup back into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := slog.Default()

		cfg := common.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		store, cleanup, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		n, err := export.NewService(store, logger).RestoreJSON(ctx, data)
		if err != nil {
			return err
		}
		fmt.Printf("restored %d records\n", n)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Substring search over name and EPIC number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := slog.Default()

		v := common.NewValidator()
		v.Field("query", args[0], common.Required, common.MaxLength(120))
		if err := v.Error(); err != nil {
			return err
		}

		cfg := common.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		store, cleanup, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		recs, err := store.SearchVoters(ctx, args[0])
		if err != nil {
			return err
		}
		for _, r := range recs {
			fmt.Printf("%-12s %-28s %3d %s  %s\n",
				r.EpicNo, r.Name, r.Age, r.Gender, r.ParentSpouseName)
		}
		fmt.Printf("%d matches\n", len(recs))
		return nil
	},
}

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete one voter by EPIC number, or every record with --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := slog.Default()

		all, _ := cmd.Flags().GetBool("all")
		if !all {
			v := common.NewValidator()
			v.Field("epic", flagWipeEpic, common.Required, common.GenuineEpicNo)
			if err := v.Error(); err != nil {
				return err
			}
		}

		cfg := common.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		store, cleanup, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		if all {
			if err := store.DeleteAll(ctx); err != nil {
				return err
			}
			fmt.Println("store cleared")
			return nil
		}
		if err := store.DeleteVoter(ctx, flagWipeEpic); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", flagWipeEpic)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagExportOut, "out", "-", "output path, - for stdout")
	exportCmd.Flags().BoolVar(&flagExportXLSX, "xlsx", false, "write an XLSX workbook instead of JSON")
	wipeCmd.Flags().StringVar(&flagWipeEpic, "epic", "", "EPIC number to delete")
	wipeCmd.Flags().Bool("all", false, "delete every record")
}
