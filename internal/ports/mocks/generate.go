//go:generate mockgen -source=../cache_store.go      -destination=./mock_cache_store.go      -package=mocks
//go:generate mockgen -source=../order_repository.go -destination=./mock_order_repository.go -package=mocks
//go:generate mockgen -source=../user_repository.go  -destination=./mock_user_repository.go  -package=mocks
//go:generate mockgen -source=../geocoder.go         -destination=./mock_geocoder.go         -package=mocks
//go:generate mockgen -source=../event_publisher.go  -destination=./mock_event_publisher.go  -package=mocks
//go:generate mockgen -source=../message_consumer.go -destination=./mock_message_consumer.go -package=mocks
//go:generate mockgen -source=../validator.go        -destination=./mock_validator.go        -package=mocks
//go:generate mockgen -source=../services.go         -destination=./mock_services.go         -package=mocks

package mocks
