package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCalculation(t *testing.T) {
	before := testutil.ToFloat64(CalculationsTotal.WithLabelValues("ok"))
	ObserveCalculation("ok", 30, 5*time.Millisecond)
	after := testutil.ToFloat64(CalculationsTotal.WithLabelValues("ok"))

	if after != before+1 {
		t.Errorf("ok counter = %v, want %v", after, before+1)
	}
}

func TestObserveCalculation_Failure(t *testing.T) {
	before := testutil.ToFloat64(CalculationsTotal.WithLabelValues("error"))
	ObserveCalculation("error", 99, time.Second)
	after := testutil.ToFloat64(CalculationsTotal.WithLabelValues("error"))

	if after != before+1 {
		t.Errorf("error counter = %v, want %v", after, before+1)
	}
}

func TestRowsDroppedCounter(t *testing.T) {
	before := testutil.ToFloat64(RowsDropped)
	RowsDropped.Add(3)
	after := testutil.ToFloat64(RowsDropped)

	if after != before+3 {
		t.Errorf("rows dropped = %v, want %v", after, before+3)
	}
}
