package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(semesterCreditCmd)
	semesterCreditCmd.Flags().String("professor", "", "Credit only this professor")
}

var semesterCreditCmd = &cobra.Command{
	Use:   "semester-credit",
	Short: "Credit every professor with the semester allowance",
	Long: `Credits SEMESTER_CREDIT_AMOUNT to every professor, one transaction per professor.
The command is not idempotent: running it twice credits twice.`,
	RunE: runSemesterCredit,
}

func runSemesterCredit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx, false)
	if err != nil {
		return err
	}
	defer a.pool.Close()

	dispatcher := a.newDispatcher()
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	transfer := a.newServices(dispatcher).Transfer

	if professorID, _ := cmd.Flags().GetString("professor"); professorID != "" {
		view, err := transfer.SemesterCreditForProfessor(ctx, professorID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "credited %s with %s (entry %d)\n", professorID, view.Amount, view.ID)
		return nil
	}

	result, err := transfer.SemesterCredit(ctx)
	if err != nil {
		return err
	}
	for _, id := range result.Failed {
		a.logger.Warn("Semester credit failed for professor", slog.String("professor_id", id))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "credited: %d, failed: %d\n", len(result.Credited), len(result.Failed))
	if len(result.Failed) > 0 {
		return fmt.Errorf("semester credit failed for %d professor(s)", len(result.Failed))
	}
	return nil
}
