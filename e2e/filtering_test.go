//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"ecommerce_automation/application/result"
	"ecommerce_automation/domain/entities"
)

type FilteringSuite struct {
	shopSuite
}

func TestFilteringSuite(t *testing.T) {
	suite.Run(t, new(FilteringSuite))
}

func (s *FilteringSuite) TestSortOptions() {
	inventory := s.signIn()

	for _, option := range entities.SortOptions {
		before, step := result.CheckNoException(s.recorder, "Read item prices", func() ([]entities.ItemPrice, error) {
			return inventory.ItemPrices(s.ctx)
		})
		s.Require().True(step.Passed)

		s.recorder.CheckNoError("Sort by "+option.Label(), func() error { return inventory.ApplySort(s.ctx, option) })
		s.Require().True(s.recorder.StepStatus())

		after, _ := result.CheckNoException(s.recorder, "Read item prices", func() ([]entities.ItemPrice, error) {
			return inventory.ItemPrices(s.ctx)
		})
		s.recorder.CheckEqual(after, option.SortItems(before), "Items are ordered by "+option.Label())
		s.True(s.recorder.StepStatus(), option.Label())
	}
}
