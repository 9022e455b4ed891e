package daycare

import (
	"testing"

	"github.com/pkg/errors"
)

func TestInscription_Transition(t *testing.T) {
	tests := []struct {
		from, to string
		wantErr  bool
	}{
		{from: InscriptionApplication, to: InscriptionInReview},
		{from: InscriptionApplication, to: InscriptionRejected},
		{from: InscriptionApplication, to: InscriptionActive, wantErr: true},
		{from: InscriptionInReview, to: InscriptionActive},
		{from: InscriptionInReview, to: InscriptionRejected},
		{from: InscriptionInReview, to: InscriptionApplication, wantErr: true},
		{from: InscriptionActive, to: InscriptionRejected, wantErr: true},
		{from: InscriptionRejected, to: InscriptionInReview, wantErr: true},
		{from: InscriptionApplication, to: "bogus", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			got, err := Inscription{ID: 1, Status: tt.from}.Transition(tt.to)
			if tt.wantErr {
				if errors.Cause(err) != ErrInvalidTransition {
					t.Errorf("Transition() error = %v; want ErrInvalidTransition", err)
				}
				if got.Status != tt.from {
					t.Errorf("Transition() status = %v; want unchanged %v", got.Status, tt.from)
				}
				return
			}
			if err != nil {
				t.Fatalf("Transition() error = %v", err)
			}
			if got.Status != tt.to {
				t.Errorf("Transition() status = %v; want %v", got.Status, tt.to)
			}
		})
	}
}
