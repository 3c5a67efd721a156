package listing

import (
	"math"

	"github.com/mawrid/mawrid/internal/suppliers"
)

// Stats summarises the full supplier list for the dashboard cards.
type Stats struct {
	Total          int
	WithPhone      int
	WithEmail      int
	CompletionRate int
}

// ComputeStats counts suppliers with contact details. CompletionRate is the
// rounded percentage of suppliers with an email.
func ComputeStats(all []suppliers.Supplier) Stats {
	st := Stats{Total: len(all)}
	for _, s := range all {
		if s.Mobile1 != "" {
			st.WithPhone++
		}
		if s.EmailValue() != "" {
			st.WithEmail++
		}
	}
	if st.Total > 0 {
		st.CompletionRate = int(math.Round(float64(st.WithEmail) / float64(st.Total) * 100))
	}
	return st
}
