package main

import (
	"fmt"

	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Calculate the pension for inputs given as flags",
	Example: "  pensioncalc compute --age 56 --sex female --weeks 1150 \\\n" +
		"    --savings 250000000 --return-rate 7 --admin-fee 1",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := inputFromFlags(cmd)
		if err != nil {
			return err
		}

		lenient, _ := cmd.Flags().GetBool("lenient-sex")
		calc := newCalculator(cmd, domain.DefaultRules(), lenient)

		report, err := calc.Report(in)
		if err != nil {
			return fmt.Errorf("calculation failed: %w", err)
		}
		return render(cmd, report)
	},
}

func inputFromFlags(cmd *cobra.Command) (domain.PensionInput, error) {
	var in domain.PensionInput
	flags := cmd.Flags()

	in.Age, _ = flags.GetInt("age")
	in.WeeksContributed, _ = flags.GetInt("weeks")
	sex, _ := flags.GetString("sex")
	in.Sex = domain.ParseSex(sex)

	amounts := []struct {
		flag string
		dst  *decimal.Decimal
	}{
		{"salary", &in.CurrentSalary},
		{"savings", &in.CurrentSavings},
		{"return-rate", &in.FundReturnRate},
		{"admin-fee", &in.AdminFeeRate},
	}
	for _, a := range amounts {
		raw, _ := flags.GetString(a.flag)
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return in, fmt.Errorf("invalid --%s %q: %w", a.flag, raw, err)
		}
		*a.dst = d
	}
	return in, nil
}

func init() {
	computeCmd.Flags().Int("age", 0, "Current age in years")
	computeCmd.Flags().String("sex", "", "Sex (female or male)")
	computeCmd.Flags().String("salary", "0", "Current salary (recorded, not used in the projection)")
	computeCmd.Flags().Int("weeks", 0, "Weeks of contributions")
	computeCmd.Flags().String("savings", "", "Current accumulated savings")
	computeCmd.Flags().String("return-rate", "", "Annual fund return rate in percentage points")
	computeCmd.Flags().String("admin-fee", "", "Administration fee rate in percentage points")
	for _, name := range []string{"age", "sex", "weeks", "savings", "return-rate", "admin-fee"} {
		computeCmd.MarkFlagRequired(name)
	}
	addRenderFlags(computeCmd)
}
