package mocks

//go:generate mockgen -destination=./mock_notifier.go -package=mocks github.com/quantgate/signal-sentinel/internal/notifier Notifier
//go:generate mockgen -destination=./mock_store.go -package=mocks github.com/quantgate/signal-sentinel/internal/store SignalStore
