package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/services"
)

func TestRequiresApproval(t *testing.T) {
	cases := []struct {
		name string
		at   models.ActionType
		data services.ActionData
		want bool
	}{
		{"sale at threshold stays direct", models.ActionSaleCreate, services.ActionData{AmountPaise: 50000_00}, false},
		{"sale above threshold defers", models.ActionSaleCreate, services.ActionData{AmountPaise: 50000_01}, true},
		{"sale update above threshold defers", models.ActionSaleUpdate, services.ActionData{AmountPaise: 80000_00}, true},
		{"discount at cap stays direct", models.ActionDiscountApply, services.ActionData{DiscountPercentage: 15}, false},
		{"discount above cap defers", models.ActionDiscountApply, services.ActionData{DiscountPercentage: 15.5}, true},
		{"price move within band stays direct", models.ActionProductUpdate, services.ActionData{OldPricePaise: 10000_00, NewPricePaise: 10900_00}, false},
		{"price move past band defers", models.ActionProductUpdate, services.ActionData{OldPricePaise: 10000_00, NewPricePaise: 11100_00}, true},
		{"price drop past band defers", models.ActionProductUpdate, services.ActionData{OldPricePaise: 10000_00, NewPricePaise: 8900_00}, true},
		{"regular customer update stays direct", models.ActionCustomerUpdate, services.ActionData{CustomerValue: models.CustomerValueRegular}, false},
		{"high-value customer update defers", models.ActionCustomerUpdate, services.ActionData{CustomerValue: models.CustomerValueHighValue}, true},
		{"customer create never defers on amount", models.ActionCustomerCreate, services.ActionData{AmountPaise: 999999_00}, false},
		{"sale delete has no threshold", models.ActionSaleDelete, services.ActionData{AmountPaise: 999999_00}, false},
		{"floor assignment has no threshold", models.ActionFloorAssignment, services.ActionData{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, services.RequiresApproval(tc.at, tc.data))
		})
	}
}

func TestApprovalPriorityBands(t *testing.T) {
	cases := []struct {
		name   string
		amount int64
		want   models.PriorityType
	}{
		{"60k is medium", 60000_00, models.PriorityMedium},
		{"75k is still medium", 75000_00, models.PriorityMedium},
		{"80k is high", 80000_00, models.PriorityHigh},
		{"100k is still high", 100000_00, models.PriorityHigh},
		{"120k is urgent", 120000_00, models.PriorityUrgent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := services.ApprovalPriority(models.ActionSaleCreate, services.ActionData{AmountPaise: tc.amount})
			require.Equal(t, tc.want, got)
		})
	}

	require.Equal(t, models.PriorityMedium,
		services.ApprovalPriority(models.ActionCustomerUpdate, services.ActionData{}))
}

func TestSLAWindowPerPriority(t *testing.T) {
	require.Equal(t, 30*time.Minute, services.SLAWindow(models.PriorityUrgent))
	require.Equal(t, 2*time.Hour, services.SLAWindow(models.PriorityHigh))
	require.Equal(t, 8*time.Hour, services.SLAWindow(models.PriorityMedium))
	require.Equal(t, 24*time.Hour, services.SLAWindow(models.PriorityLow))
}
