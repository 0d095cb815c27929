package slot

import "github.com/m04kA/SessionBookingService/pkg/dbmetrics"

// DBExecutor переиспользуем интерфейс из dbmetrics.
// Транзакция берется из контекста (dbmetrics.GetExecutor).
type DBExecutor = dbmetrics.DBExecutor
