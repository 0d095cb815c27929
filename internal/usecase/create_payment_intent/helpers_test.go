package create_payment_intent

import (
	"context"

	"github.com/m04kA/SessionBookingService/internal/integrations/stripeprovider"
	"github.com/m04kA/SessionBookingService/internal/testutil"
)

// skewedProvider возвращает намерение на сумму на единицу больше запрошенной
type skewedProvider struct {
	*testutil.Provider
}

func (p skewedProvider) CreateIntent(ctx context.Context, req stripeprovider.IntentRequest) (*stripeprovider.Intent, error) {
	intent, err := p.Provider.CreateIntent(ctx, req)
	if err != nil {
		return nil, err
	}
	intent.Amount++
	return intent, nil
}
