package statistics_test

import (
	"testing"

	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/internal/domain/statistics"
	. "github.com/smartystreets/goconvey/convey"
)

func params(confidence int, margin float64) model.SampleSizeParameters {
	return model.SampleSizeParameters{
		ConfidenceLevel:      confidence,
		MarginOfError:        margin,
		PopulationProportion: 0.5,
	}
}

func TestZScoreFor(t *testing.T) {
	Convey("Given the supported confidence levels", t, func() {
		So(statistics.ZScoreFor(90), ShouldEqual, 1.645)
		So(statistics.ZScoreFor(95), ShouldEqual, 1.96)
		So(statistics.ZScoreFor(99), ShouldEqual, 2.576)

		Convey("When the level is unsupported", func() {
			Convey("Then the 95% Z-score is used", func() {
				So(statistics.ZScoreFor(80), ShouldEqual, 1.96)
				So(statistics.ZScoreFor(0), ShouldEqual, 1.96)
				So(statistics.ZScoreFor(-1), ShouldEqual, 1.96)
			})
		})
	})
}

func TestInfiniteSampleSize(t *testing.T) {
	Convey("Given a 95% confidence level and p=0.5", t, func() {
		z := statistics.ZScoreFor(95)

		Convey("When the margin of error is 5%", func() {
			Convey("Then 385 respondents are needed", func() {
				So(statistics.InfiniteSampleSize(z, 0.5, 0.05), ShouldEqual, 385)
			})
		})

		Convey("When the margin of error is 10%", func() {
			Convey("Then 97 respondents are needed", func() {
				So(statistics.InfiniteSampleSize(z, 0.5, 0.10), ShouldEqual, 97)
			})
		})

		Convey("When the margin of error grows", func() {
			Convey("Then the sample size never increases", func() {
				prev := statistics.Calculate(params(95, 1)).InfiniteSampleSize
				for margin := 2; margin <= 20; margin++ {
					cur := statistics.Calculate(params(95, float64(margin))).InfiniteSampleSize
					So(cur, ShouldBeLessThanOrEqualTo, prev)
					prev = cur
				}
			})
		})

		Convey("When the margin of error is zero", func() {
			Convey("Then no size is computed", func() {
				So(statistics.InfiniteSampleSize(z, 0.5, 0), ShouldEqual, 0)
			})
		})
	})

	Convey("Given other confidence levels", t, func() {
		So(statistics.Calculate(params(90, 10)).InfiniteSampleSize, ShouldEqual, 68)
		So(statistics.Calculate(params(99, 5)).InfiniteSampleSize, ShouldEqual, 664)
	})
}

func TestFiniteCorrection(t *testing.T) {
	Convey("Given an infinite-population size of 385", t, func() {
		Convey("When the population is 50", func() {
			adjusted := statistics.FiniteCorrection(385, 50)

			Convey("Then the corrected size does not exceed the population", func() {
				So(adjusted, ShouldBeLessThanOrEqualTo, 50)
				So(adjusted, ShouldEqual, 45)
			})
		})

		Convey("When the population is 1000", func() {
			So(statistics.FiniteCorrection(385, 1000), ShouldEqual, 279)
		})

		Convey("When the population is a single person", func() {
			So(statistics.FiniteCorrection(385, 1), ShouldEqual, 1)
		})

		Convey("When the population is unknown", func() {
			So(statistics.FiniteCorrection(385, 0), ShouldEqual, 385)
		})

		Convey("When sweeping populations", func() {
			Convey("Then the corrected size is always within the population", func() {
				for n := 1; n <= 2000; n += 7 {
					So(statistics.FiniteCorrection(385, n), ShouldBeLessThanOrEqualTo, n)
				}
			})
		})
	})
}

func TestCalculate(t *testing.T) {
	Convey("Given parameters with a known population", t, func() {
		p := params(95, 5)
		p.PopulationSize = 50

		Convey("When finite correction is disabled", func() {
			res := statistics.Calculate(p)

			Convey("Then the adjusted size equals the infinite size", func() {
				So(res.InfiniteSampleSize, ShouldEqual, 385)
				So(res.AdjustedSampleSize, ShouldEqual, 385)
				So(res.ZScore, ShouldEqual, 1.96)
			})
		})

		Convey("When finite correction is enabled", func() {
			p.UseFinitePopulation = true
			res := statistics.Calculate(p)

			Convey("Then the adjusted size is corrected and capped", func() {
				So(res.InfiniteSampleSize, ShouldEqual, 385)
				So(res.AdjustedSampleSize, ShouldEqual, 45)
			})
		})

		Convey("When finite correction is enabled without a population", func() {
			p.UseFinitePopulation = true
			p.PopulationSize = 0
			res := statistics.Calculate(p)

			Convey("Then the infinite size is used uncapped", func() {
				So(res.AdjustedSampleSize, ShouldEqual, 385)
			})
		})
	})

	Convey("Given the default client parameters", t, func() {
		res := statistics.Calculate(model.DefaultSampleSizeParameters())
		So(res.ZScore, ShouldEqual, 1.645)
		So(res.InfiniteSampleSize, ShouldEqual, 68)
		So(res.AdjustedSampleSize, ShouldEqual, 68)
	})
}

func TestForStakeholder(t *testing.T) {
	Convey("Given global parameters without finite correction", t, func() {
		p := params(95, 5)

		Convey("When a stakeholder has no known population", func() {
			So(statistics.ForStakeholder(p, 0, true), ShouldEqual, 0)
		})

		Convey("When a stakeholder toggles its own correction", func() {
			Convey("Then the group population is used regardless of the global toggle", func() {
				So(statistics.ForStakeholder(p, 200, true), ShouldEqual, 132)
				So(statistics.ForStakeholder(p, 200, false), ShouldEqual, 385)
			})
		})
	})
}

func TestBuildPlan(t *testing.T) {
	Convey("Given stakeholders with mixed populations", t, func() {
		stakeholders := []model.Stakeholder{
			{ID: "1", Name: "Employees", Priority: true, Population: 200, UseFinitePopulation: true},
			{ID: "2", Name: "Suppliers", Priority: false, Population: 0},
			{ID: "3", Name: "Community", Priority: true, Population: 50, UseFinitePopulation: true},
		}

		plan := statistics.BuildPlan(params(95, 5), stakeholders)

		Convey("Then every stakeholder gets a row", func() {
			So(plan.Rows, ShouldHaveLength, 3)
			So(plan.Rows[0].SampleSize, ShouldEqual, 132)
			So(plan.Rows[0].SamplingRate, ShouldEqual, 66.0)
			So(plan.Rows[1].SampleSize, ShouldEqual, 0)
			So(plan.Rows[1].SamplingRate, ShouldEqual, 0.0)
			So(plan.Rows[2].SampleSize, ShouldEqual, 45)
		})

		Convey("Then totals are aggregated", func() {
			So(plan.TotalPopulation, ShouldEqual, 250)
			So(plan.TotalSample, ShouldEqual, 177)
			So(plan.PriorityGroups, ShouldEqual, 2)
		})
	})
}
