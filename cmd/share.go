package cmd

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"fairshare/balances"
)

var inputPath string
var outputPath string

func shareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "share",
		Short:   "accept two CSV file paths",
		Long:    `accept two CSV file paths, one for input and one for output. It reads expenses from the input CSV and writes the fewest payments that settle the group to the output CSV.`,
		Example: `fairshare share --input expenses.csv --output settlements.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" || outputPath == "" {
				return cmd.Help()
			}

			inputFile, err := os.Open(inputPath)
			if err != nil {
				return err
			}
			defer func(inputFile *os.File) {
				err := inputFile.Close()
				if err != nil {
					log.Fatalf("Failed to close input file: %v", err)
				}
			}(inputFile)

			csvContent, err := csv.NewReader(inputFile).ReadAll()
			if err != nil {
				return err
			}

			members, expenses, err := ParseCSVToExpenses(csvContent)
			if err != nil {
				return fmt.Errorf("failed to parse CSV: %w", err)
			}
			if len(expenses) == 0 {
				return fmt.Errorf("no valid expenses found in the CSV")
			}

			memberBalances, err := balances.MemberBalances(members, expenses, nil)
			if err != nil {
				return fmt.Errorf("failed to compute balances: %w", err)
			}
			suggestions, err := balances.Optimize(memberBalances)
			if err != nil {
				return fmt.Errorf("failed to compute settlement plan: %w", err)
			}

			outputFile, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			defer func(outputFile *os.File) {
				err := outputFile.Close()
				if err != nil {
					log.Fatalf("Failed to close output file: %v", err)
				}
			}(outputFile)

			nameByID := make(map[uuid.UUID]string, len(members))
			for _, m := range members {
				nameByID[m.ID] = m.Name
			}

			writer := csv.NewWriter(outputFile)
			if err := writer.Write([]string{"from", "to", "amount"}); err != nil {
				return err
			}
			for _, s := range suggestions {
				row := []string{
					nameByID[s.From],
					nameByID[s.To],
					strconv.FormatFloat(s.Amount, 'f', 2, 64),
				}
				if err := writer.Write(row); err != nil {
					return err
				}
			}
			writer.Flush()
			if err := writer.Error(); err != nil {
				return err
			}

			fmt.Printf("Wrote %d settlement(s) for %d member(s) to %s\n", len(suggestions), len(members), outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "csv input file path (required)")
	err := cmd.MarkFlagRequired("input")
	if err != nil {
		log.Fatal(err)
		return nil
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "csv output file path (required)")
	err = cmd.MarkFlagRequired("output")
	if err != nil {
		log.Fatal(err)
		return nil
	}

	return cmd
}

// ParseCSVToExpenses parses CSV rows of the form
// "name,amount,paid_by,participants" (participants comma separated) into
// members and equal-split expenses. Member IDs are assigned on first sight.
func ParseCSVToExpenses(csvContent [][]string) ([]balances.Member, []balances.Expense, error) {
	if len(csvContent) == 0 {
		return nil, nil, fmt.Errorf("CSV is empty")
	}

	// skip the header row
	dataRows := csvContent[1:]

	idByName := make(map[string]uuid.UUID)
	var members []balances.Member
	memberID := func(name string) uuid.UUID {
		if id, ok := idByName[name]; ok {
			return id
		}
		id := uuid.New()
		idByName[name] = id
		members = append(members, balances.Member{ID: id, Name: name})
		return id
	}

	var expenses []balances.Expense
	for i, row := range dataRows {
		if len(row) != 4 {
			return nil, nil, fmt.Errorf("row %d: expected 4 columns, but got %d", i+2, len(row)) // +2 to account for the header row
		}

		amount, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: failed to convert amount '%s' to float: %w", i+2, row[1], err)
		}

		participants := strings.Split(row[3], ",")
		shares := make([]balances.SplitShare, 0, len(participants))
		for _, p := range participants {
			name := strings.TrimSpace(p)
			if name == "" {
				continue
			}
			shares = append(shares, balances.SplitShare{MemberID: memberID(name)})
		}
		if len(shares) == 0 {
			return nil, nil, fmt.Errorf("row %d: no participants", i+2)
		}

		expenses = append(expenses, balances.Expense{
			ID:         uuid.New(),
			Name:       row[0],
			Amount:     amount,
			PaidBy:     memberID(strings.TrimSpace(row[2])),
			Split:      balances.SplitEqual,
			SplitAmong: shares,
		})
	}

	return members, expenses, nil
}
