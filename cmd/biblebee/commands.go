package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bible-bee-api/internal/importer"
	"github.com/bible-bee-api/internal/models"
	"github.com/bible-bee-api/internal/services"
	"github.com/bible-bee-api/pkg/schema/db"
)

func newMigrateCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema migrations to the configured database",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conn, err := env.db(ctx)
			if err != nil {
				return err
			}
			if err := db.Migrate(ctx, conn); err != nil {
				return withCode(exitStorage, err)
			}
			return writeJSON(cmd.OutOrStdout(), map[string]string{"status": "migrated", "driver": conn.DriverName()})
		},
	}
}

func newPreviewCmd(env *cliEnv) *cobra.Command {
	var csvPath, jsonPath string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Match a scripture spreadsheet against a JSON text bundle without writing",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(map[string]string{"csv": csvPath, "json": jsonPath}); err != nil {
				return err
			}
			rows, err := readRowsFile(csvPath)
			if err != nil {
				return err
			}
			upload, err := readBundleFile(jsonPath)
			if err != nil {
				return err
			}

			// previews never touch storage
			svc := services.NewImportService(nil, nil, env.logger)
			preview, err := svc.PreviewImport(cmd.Context(), rows, upload)
			if err != nil {
				return classify(err)
			}
			return writeJSON(cmd.OutOrStdout(), preview)
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "Scripture spreadsheet (.csv or .xlsx) (required)")
	cmd.Flags().StringVar(&jsonPath, "json", "", "JSON text bundle (required)")
	return cmd
}

func newImportCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Commit scripture files to a competition year",
	}
	cmd.AddCommand(newImportCSVCmd(env))
	cmd.AddCommand(newImportTextsCmd(env))
	return cmd
}

func newImportCSVCmd(env *cliEnv) *cobra.Command {
	var yearID string
	cmd := &cobra.Command{
		Use:   "csv FILE",
		Short: "Upsert scriptures from a .csv or .xlsx spreadsheet",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(map[string]string{"year": yearID}); err != nil {
				return err
			}
			rows, err := readRowsFile(args[0])
			if err != nil {
				return err
			}
			store, err := env.store(cmd.Context())
			if err != nil {
				return err
			}

			svc := services.NewImportService(store.Years, store.Scriptures, env.logger)
			result, err := svc.CommitCsvRowsToYear(cmd.Context(), rows, yearID)
			if err != nil {
				return classify(err)
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&yearID, "year", "", "Competition year ID (required)")
	return cmd
}

func newImportTextsCmd(env *cliEnv) *cobra.Command {
	var yearID string
	var opts services.MergeOptions
	cmd := &cobra.Command{
		Use:   "texts FILE",
		Short: "Merge translations from a JSON text bundle",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(map[string]string{"year": yearID}); err != nil {
				return err
			}
			upload, err := readBundleFile(args[0])
			if err != nil {
				return err
			}
			store, err := env.store(cmd.Context())
			if err != nil {
				return err
			}

			svc := services.NewImportService(store.Years, store.Scriptures, env.logger)
			result, err := svc.MergeJsonTexts(cmd.Context(), upload, yearID, opts)
			if err != nil {
				return classify(err)
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&yearID, "year", "", "Competition year ID (required)")
	cmd.Flags().BoolVar(&opts.CreateMissing, "create-missing", false, "Create scriptures for bundle items that match none")
	return cmd
}

func newLookupCmd(env *cliEnv) *cobra.Command {
	var yearID string
	cmd := &cobra.Command{
		Use:   "lookup REFERENCE",
		Short: "Find a year's scripture by reference in any accepted spelling",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(map[string]string{"year": yearID}); err != nil {
				return err
			}
			store, err := env.store(cmd.Context())
			if err != nil {
				return err
			}

			svc := services.NewImportService(store.Years, store.Scriptures, env.logger)
			lookup, err := svc.FindScripture(cmd.Context(), yearID, args[0])
			if err != nil {
				return classify(err)
			}
			return writeJSON(cmd.OutOrStdout(), lookup)
		},
	}
	cmd.Flags().StringVar(&yearID, "year", "", "Competition year ID (required)")
	return cmd
}

func newEnrollCmd(env *cliEnv) *cobra.Command {
	var yearID, childID string
	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Assign scriptures and essays to children for a competition year",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(map[string]string{"year": yearID}); err != nil {
				return err
			}
			store, err := env.store(cmd.Context())
			if err != nil {
				return err
			}
			svc := services.NewEnrollmentService(store, env.resolver(store), env.logger)

			if childID == "" {
				bulk, err := svc.EnrollCompetitionYear(cmd.Context(), yearID)
				if err != nil {
					return classify(err)
				}
				return writeJSON(cmd.OutOrStdout(), bulk)
			}

			result, err := svc.EnrollChildInBibleBee(cmd.Context(), childID, yearID)
			if err != nil {
				return classify(err)
			}
			return writeJSON(cmd.OutOrStdout(), models.EnrollmentResponse{
				ChildID:    childID,
				Enrolled:   result != nil,
				Assignment: result,
			})
		},
	}
	cmd.Flags().StringVar(&yearID, "year", "", "Competition year ID (required)")
	cmd.Flags().StringVar(&childID, "child", "", "Enroll only this child")
	return cmd
}

func readRowsFile(path string) ([]models.CsvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	defer f.Close()

	rows, err := importer.ReadRows(path, f)
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

func readBundleFile(path string) (*models.JsonTextUpload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	defer f.Close()

	upload, err := importer.DecodeBundle(f)
	if err != nil {
		return nil, classify(err)
	}
	return upload, nil
}
