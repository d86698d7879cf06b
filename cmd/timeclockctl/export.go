package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"timeclock/internal/service"
	"timeclock/internal/timesheet"
)

func exportCmd() *cobra.Command {
	var from, to, format, outDir string
	var userID int
	var upload bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the timesheet report as CSV or XLSX",
		Long: `Renders the same report the admin export endpoint serves and writes it to
--out. With --upload the file is also pushed to the configured Dropbox folder
and the shared link printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := openStore()
			if err != nil {
				return err
			}
			fmtKind, err := service.ParseExportFormat(format)
			if err != nil {
				return err
			}
			clock := timesheet.SystemClock{Location: cfg.Location()}
			reports := service.NewReportService(st.Users, st.Timesheets, clock, cfg.Schedule())

			var uploader *service.DropboxUploader
			if upload {
				uploader = service.NewDropboxUploader(cfg.Dropbox.AccessToken, cfg.Dropbox.Folder, cfg.Dropbox.APIURL, cfg.Dropbox.ContentURL)
				if uploader == nil {
					return fmt.Errorf("--upload needs dropbox.access_token (or DROPBOX_ACCESS_TOKEN)")
				}
			}

			start, end := reports.DefaultRange()
			if start, end, err = parseRangeDefault(start, end, from, to); err != nil {
				return err
			}
			file, err := service.NewExportService(reports, uploader).Export(cmd.Context(),
				service.ReportFilter{Start: start, End: end, UserID: userID}, fmtKind)
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, file.Name)
			if err := os.WriteFile(path, file.Data, 0o644); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s wrote %s (%d bytes)\n", color.New(color.FgGreen).Sprint("✓"), path, len(file.Data))
			if file.URL != "" {
				fmt.Fprintf(out, "  %s\n", color.New(color.FgCyan).Sprint(file.URL))
			} else if upload {
				fmt.Fprintln(out, color.New(color.FgYellow).Sprint("  upload failed, see log"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD (default: first of month)")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().IntVar(&userID, "user-id", 0, "limit to one user")
	cmd.Flags().BoolVar(&upload, "upload", false, "also upload to Dropbox")
	return cmd
}
