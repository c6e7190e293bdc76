package calculation

import (
	"errors"
	"sync"
	"testing"

	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func assertDecimalInDelta(t *testing.T, expected float64, actual decimal.Decimal, delta float64, msg string) {
	t.Helper()
	assert.InDelta(t, expected, actual.InexactFloat64(), delta, "%s: got %s", msg, actual.StringFixed(4))
}

func TestNewCalculator(t *testing.T) {
	calc := NewCalculator()

	assert.NotNil(t, calc, "Should create calculator")
	assert.Equal(t, domain.DefaultRules(), calc.Rules, "Should use statutory rules")
	assert.False(t, calc.LenientSex, "Should be strict by default")
	assert.IsType(t, NopLogger{}, calc.Logger, "Should default to no-op logger")
}

func TestCalculator_SetLogger(t *testing.T) {
	calc := NewCalculator()

	logger, _ := logtest.NewNullLogger()
	calc.SetLogger(logger)
	assert.Equal(t, logger, calc.Logger, "Should set custom logger")

	calc.SetLogger(nil)
	assert.IsType(t, NopLogger{}, calc.Logger, "Should fall back to no-op logger")
}

func TestComputePension_ReferenceCases(t *testing.T) {
	tests := []struct {
		name      string
		age       int
		sex       domain.Sex
		weeks     int
		savings   float64
		rate      float64
		fee       float64
		projected float64
		annual    float64
		monthly   float64
		delta     float64
	}{
		{"female one year out", 56, domain.SexFemale, 1150, 250000000, 7, 1, 267500000, 16050000, 1337500, 0.01},
		{"male at retirement age", 62, domain.SexMale, 1300, 300000000, 7.5, 1, 300000000, 19500000, 1625000, 0.01},
		{"female eight percent", 56, domain.SexFemale, 1200, 280000000, 8, 1, 302400000, 21168000, 1764000, 0.01},
		{"male eight and a half percent", 62, domain.SexMale, 1400, 320000000, 8.5, 1, 320000000, 24000000, 2000000, 0.01},
		{"female fractional rate", 56, domain.SexFemale, 1250, 270000000, 7.25, 1, 289575000, 18098437.5, 1508203.125, 0.01},
		{"male fractional rate", 62, domain.SexMale, 1350, 310000000, 7.75, 1, 310000000, 20925000, 1743750, 0.01},
		{"male two years out", 60, domain.SexMale, 1200, 200000000, 5.5, 1.3, 222605000, 9349410, 779117.5, 0.01},
		{"female two years out", 55, domain.SexFemale, 1150, 150000000, 6.75, 1.2, 170933437, 9486806, 790567, 1},
		{"female six years out", 51, domain.SexFemale, 1150, 320000000, 6, 1.2, 453926116, 21788454, 1815704, 1},
		{"female at retirement age", 57, domain.SexFemale, 1200, 180000000, 6.25, 1.4, 180000000, 8730000, 727500, 0.01},
		{"male three years past", 65, domain.SexMale, 1300, 250000000, 7.5, 1.3, 201240142, 12476889, 1039741, 1},
		{"male five years past", 67, domain.SexMale, 1400, 280000000, 7.25, 1.4, 197320191, 11543231, 961936, 1},
	}

	calc := NewCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.ComputePension(tt.age, tt.sex, decimal.Zero, tt.weeks, dec(tt.savings), dec(tt.rate), dec(tt.fee))
			require.NoError(t, err)
			require.NotNil(t, result)

			assertDecimalInDelta(t, tt.projected, result.ProjectedSavings, tt.delta, "projected savings")
			assertDecimalInDelta(t, tt.annual, result.AnnualPension, tt.delta, "annual pension")
			assertDecimalInDelta(t, tt.monthly, result.MonthlyPension, tt.delta, "monthly pension")
		})
	}
}

func TestComputePension_PackageLevel(t *testing.T) {
	result, err := ComputePension(56, domain.SexFemale, decimal.Zero, 1150, dec(250000000), dec(7), dec(1))

	require.NoError(t, err)
	assert.True(t, result.ProjectedSavings.Equal(decimal.NewFromInt(267500000)), "got %s", result.ProjectedSavings)
	assert.True(t, result.AnnualPension.Equal(decimal.NewFromInt(16050000)), "got %s", result.AnnualPension)
	assert.True(t, result.MonthlyPension.Equal(decimal.NewFromInt(1337500)), "got %s", result.MonthlyPension)
	assert.Equal(t, 57, result.RetirementAge)
	assert.Equal(t, 1, result.YearsRemaining)
	assert.False(t, result.HasAdvisories())
}

func TestSetDefaultLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	SetDefaultLogger(logger)
	t.Cleanup(func() { SetDefaultLogger(nil) })

	result, err := ComputePension(60, domain.SexFemale, decimal.Zero, 1200, dec(1000000), dec(5), dec(1))
	require.NoError(t, err)
	require.Len(t, result.Advisories, 1)

	require.NotNil(t, hook.LastEntry(), "package-level advisories should reach the default logger")
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "female already eligible/past retirement age")

	SetDefaultLogger(nil)
	hook.Reset()
	_, err = ComputePension(60, domain.SexFemale, decimal.Zero, 1200, dec(1000000), dec(5), dec(1))
	require.NoError(t, err)
	assert.Empty(t, hook.AllEntries(), "nil restores the no-op logger")
	assert.IsType(t, NopLogger{}, defaultCalculator.Logger)
}

func TestComputePension_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		age     int
		sex     domain.Sex
		weeks   int
		savings float64
		rate    float64
		fee     float64
		kind    ErrorKind
		target  error
	}{
		{"negative age", -50, domain.SexFemale, 1200, 150000000, 5, 1.1, NegativeAge, ErrNegativeAge},
		{"negative weeks", 55, domain.SexFemale, -100, 200000000, 0.06, 0.012, NegativeWeeks, ErrNegativeWeeks},
		{"insufficient weeks", 50, domain.SexFemale, 100, 50000000, 0.06, 0.012, InsufficientWeeks, ErrInsufficientWeeks},
		{"negative savings", 40, domain.SexMale, 1200, -50000000, 0.065, 0.013, NegativeSavings, ErrNegativeSavings},
		{"negative return rate", 35, domain.SexFemale, 1200, 300000000, -0.02, 0.011, NegativeReturnRate, ErrNegativeReturnRate},
		{"return rate above maximum", 60, domain.SexMale, 1500, 200000000, 110, 1.2, ReturnRateExceedsMaximum, ErrReturnRateExceedsMaximum},
		{"negative admin fee", 45, domain.SexMale, 1300, 250000000, 0.07, -0.015, NegativeAdminFee, ErrNegativeAdminFee},
		{"invalid sex", 56, domain.Sex("indefinido"), 1150, 250000000, 7, 1, InvalidSex, ErrInvalidSex},
	}

	calc := NewCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.ComputePension(tt.age, tt.sex, decimal.Zero, tt.weeks, dec(tt.savings), dec(tt.rate), dec(tt.fee))

			assert.Nil(t, result, "Should return no partial result")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "expected %v, got %v", tt.target, err)

			kind, ok := KindOf(err)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, kind)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.NotEmpty(t, ve.Field)
		})
	}
}

func TestComputePension_ValidationOrder(t *testing.T) {
	calc := NewCalculator()

	// every input is invalid; negative age is checked first
	_, err := calc.ComputePension(-1, domain.Sex("x"), decimal.Zero, -5, dec(-1), dec(-1), dec(-1))
	assert.ErrorIs(t, err, ErrNegativeAge)

	// negative weeks is reported before the minimum-weeks rule
	_, err = calc.ComputePension(30, domain.SexMale, decimal.Zero, -100, dec(-1), dec(200), dec(-1))
	assert.ErrorIs(t, err, ErrNegativeWeeks)

	// savings before rates
	_, err = calc.ComputePension(30, domain.SexMale, decimal.Zero, 1200, dec(-1), dec(200), dec(-1))
	assert.ErrorIs(t, err, ErrNegativeSavings)

	// return rate above maximum before admin fee
	_, err = calc.ComputePension(30, domain.SexMale, decimal.Zero, 1200, dec(1), dec(200), dec(-1))
	assert.ErrorIs(t, err, ErrReturnRateExceedsMaximum)

	// fatal rules run before the sex check
	_, err = calc.ComputePension(30, domain.Sex("x"), decimal.Zero, 1200, dec(1), dec(5), dec(-1))
	assert.ErrorIs(t, err, ErrNegativeAdminFee)
}

func TestComputePension_Boundaries(t *testing.T) {
	calc := NewCalculator()
	savings := dec(1000000)

	_, err := calc.ComputePension(0, domain.SexMale, decimal.Zero, 1150, savings, dec(5), dec(1))
	assert.NoError(t, err, "age 0 and exactly 1150 weeks are accepted")

	_, err = calc.ComputePension(40, domain.SexMale, decimal.Zero, 1149, savings, dec(5), dec(1))
	assert.ErrorIs(t, err, ErrInsufficientWeeks, "1149 weeks is rejected")

	_, err = calc.ComputePension(40, domain.SexMale, decimal.Zero, 1200, decimal.Zero, decimal.Zero, decimal.Zero)
	assert.NoError(t, err, "zero savings, rate and fee are accepted")

	_, err = calc.ComputePension(40, domain.SexMale, decimal.Zero, 1200, savings, dec(100), dec(1))
	assert.NoError(t, err, "a rate equal to the maximum is accepted")

	_, err = calc.ComputePension(40, domain.SexMale, decimal.Zero, 1200, savings, dec(100.0001), dec(1))
	assert.ErrorIs(t, err, ErrReturnRateExceedsMaximum)
}

func TestComputePension_Properties(t *testing.T) {
	calc := NewCalculator()

	t.Run("annual and monthly derive from projected savings", func(t *testing.T) {
		for _, rate := range []float64{0, 1.5, 4, 7.25, 12, 100} {
			fee := dec(1.1)
			r, err := calc.ComputePension(45, domain.SexFemale, decimal.Zero, 1300, dec(123456789), dec(rate), fee)
			require.NoError(t, err)

			expectedAnnual := r.ProjectedSavings.Mul(dec(rate).Sub(fee)).Div(decimal.NewFromInt(100))
			assertDecimalInDelta(t, expectedAnnual.InexactFloat64(), r.AnnualPension, 0.01, "annual")
			assertDecimalInDelta(t, r.AnnualPension.Div(decimal.NewFromInt(12)).InexactFloat64(), r.MonthlyPension, 0.01, "monthly")
			assert.False(t, r.ProjectedSavings.IsNegative(), "projected savings stays non-negative")
		}
	})

	t.Run("higher return rate grows savings when years remain", func(t *testing.T) {
		prev := decimal.Zero
		for _, rate := range []float64{0, 0.5, 3, 7, 7.01, 20, 99} {
			r, err := calc.ComputePension(40, domain.SexMale, decimal.Zero, 1200, dec(1000000), dec(rate), decimal.Zero)
			require.NoError(t, err)
			assert.True(t, r.ProjectedSavings.GreaterThan(prev), "rate %v: %s should exceed %s", rate, r.ProjectedSavings, prev)
			prev = r.ProjectedSavings
		}
	})

	t.Run("salary has no effect", func(t *testing.T) {
		a, err := calc.ComputePension(50, domain.SexMale, decimal.Zero, 1200, dec(1000000), dec(6), dec(1))
		require.NoError(t, err)
		b, err := calc.ComputePension(50, domain.SexMale, dec(9999999), 1200, dec(1000000), dec(6), dec(1))
		require.NoError(t, err)
		assert.True(t, a.ProjectedSavings.Equal(b.ProjectedSavings))
		assert.True(t, a.MonthlyPension.Equal(b.MonthlyPension))
	})

	t.Run("negative years discount savings", func(t *testing.T) {
		r, err := calc.ComputePension(64, domain.SexMale, decimal.Zero, 1200, dec(1102500), dec(5), decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, -2, r.YearsRemaining)
		assertDecimalInDelta(t, 1000000, r.ProjectedSavings, 0.000001, "1102500 / 1.05^2")
	})
}

func TestComputePension_Advisories(t *testing.T) {
	tests := []struct {
		name     string
		age      int
		sex      domain.Sex
		expected string
	}{
		{"female at retirement age", 57, domain.SexFemale, "female already eligible/past retirement age"},
		{"female past retirement age", 60, domain.SexFemale, "female already eligible/past retirement age"},
		{"male past retirement age", 63, domain.SexMale, "male already eligible/past retirement age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := logtest.NewNullLogger()
			calc := NewCalculator()
			calc.SetLogger(logger)

			result, err := calc.ComputePension(tt.age, tt.sex, decimal.Zero, 1200, dec(1000000), dec(5), dec(1))
			require.NoError(t, err, "advisories never abort the calculation")
			require.Len(t, result.Advisories, 1)
			assert.Equal(t, AgeBelowRetirementEligibility.String(), result.Advisories[0].Kind)
			assert.Equal(t, tt.expected, result.Advisories[0].Message)

			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
			assert.Contains(t, hook.LastEntry().Message, tt.expected)
		})
	}

	t.Run("male at retirement age is not flagged", func(t *testing.T) {
		logger, hook := logtest.NewNullLogger()
		calc := NewCalculator()
		calc.SetLogger(logger)

		result, err := calc.ComputePension(62, domain.SexMale, decimal.Zero, 1200, dec(1000000), dec(5), dec(1))
		require.NoError(t, err)
		assert.Empty(t, result.Advisories)
		assert.Empty(t, hook.AllEntries())
	})
}

func TestComputePension_LenientSex(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	calc := NewCalculator()
	calc.LenientSex = true
	calc.SetLogger(logger)

	result, err := calc.ComputePension(56, domain.Sex("indefinido"), decimal.Zero, 1150, dec(250000000), dec(7), dec(1))

	require.NoError(t, err, "lenient mode downgrades InvalidSex")
	assert.Equal(t, 62, result.RetirementAge, "falls back to the male retirement age")
	assert.Equal(t, 6, result.YearsRemaining)
	require.Len(t, result.Advisories, 1)
	assert.Equal(t, InvalidSex.String(), result.Advisories[0].Kind)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	// 250000000 * 1.07^6
	assertDecimalInDelta(t, 375182587.96, result.ProjectedSavings, 0.01, "projected savings")
}

func TestComputePension_CustomRules(t *testing.T) {
	rules := domain.DefaultRules()
	rules.MinimumWeeks = 1300
	rules.FemaleRetirementAge = 60
	calc := NewCalculatorWithRules(rules)

	_, err := calc.ComputePension(56, domain.SexFemale, decimal.Zero, 1250, dec(1000), dec(5), dec(1))
	assert.ErrorIs(t, err, ErrInsufficientWeeks)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "1300", ve.Limit)

	result, err := calc.ComputePension(56, domain.SexFemale, decimal.Zero, 1300, dec(1000), dec(10), dec(1))
	require.NoError(t, err)
	assert.Equal(t, 4, result.YearsRemaining)
	assertDecimalInDelta(t, 1464.1, result.ProjectedSavings, 0.0001, "1000 * 1.1^4")
}

func TestCalculator_Report(t *testing.T) {
	calc := NewCalculator()
	in := domain.PensionInput{
		Age:              62,
		Sex:              domain.SexMale,
		WeeksContributed: 1300,
		CurrentSavings:   dec(300000000),
		FundReturnRate:   dec(7.5),
		AdminFeeRate:     dec(1),
	}

	report, err := calc.Report(in)
	require.NoError(t, err)
	assert.Equal(t, in, report.Input)
	assert.Equal(t, calc.Rules, report.Rules)
	assertDecimalInDelta(t, 1625000, report.Projection.MonthlyPension, 0.01, "monthly pension")

	in.Age = -1
	report, err = calc.Report(in)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrNegativeAge)
}

func TestCalculator_ConcurrentUse(t *testing.T) {
	calc := NewCalculator()

	var wg sync.WaitGroup
	results := make([]decimal.Decimal, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := calc.ComputePension(56, domain.SexFemale, decimal.Zero, 1150, dec(250000000), dec(7), dec(1))
			if err == nil {
				results[i] = r.MonthlyPension
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.True(t, r.Equal(decimal.NewFromInt(1337500)))
	}
}

func TestCalculator_DebugLogging(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	calc := NewCalculator()
	calc.SetLogger(logger)
	calc.Debug = true

	_, err := calc.ComputePension(40, domain.SexMale, decimal.Zero, 1200, dec(1000), dec(5), dec(1))
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, logrus.DebugLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "years remaining 22")
}
