package main

import (
	"github.com/rs/zerolog/log"

	"food-order-assistant/config"
	httpapi "food-order-assistant/internal/api/http"
	"food-order-assistant/internal/dispatch"
	"food-order-assistant/internal/logger"
	"food-order-assistant/internal/service"
	"food-order-assistant/internal/storage"
)

func main() {
	logCfg := config.MustLoad[logger.Config]("LOG")
	logger.Init(*logCfg)

	dbCfg := config.MustLoad[config.DatabaseConfig]("DB")
	db := config.MustInitPostgres(*dbCfg)
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	var cache service.CatalogCache
	redisCfg := config.MustLoad[config.RedisConfig]("REDIS")
	if redisCfg.Enabled {
		client := config.MustInitRedis(*redisCfg)
		cache = storage.NewCatalogCache(client, redisCfg.CacheTTL)
	}

	var publisher service.OrderPublisher
	kafkaCfg := config.MustLoad[config.KafkaConfig]("KAFKA")
	if kafkaCfg.Enabled {
		publisher = storage.NewKafkaPublisher(config.NewKafkaWriter(*kafkaCfg))
	}

	serverCfg := config.MustLoad[config.ServerConfig]("SERVER")
	orderCfg := config.MustLoad[config.OrderConfig]("ORDER")

	catalogSvc := service.NewCatalogService(repo, cache)
	cartSvc := service.NewCartService(repo)
	orderSvc := service.NewOrderService(repo, service.OrderConfig{
		DeliveryFeeCents:   orderCfg.DeliveryFeeCents,
		AllowEmptyCheckout: orderCfg.AllowEmptyCheckout,
	}, service.DefaultQRGenerator{BaseURL: serverCfg.PublicBaseURL}, publisher)
	conversationSvc := service.NewConversationService(repo)

	dispatcher := dispatch.NewDispatcher(catalogSvc, cartSvc, orderSvc, conversationSvc)
	handler := httpapi.NewHandler(dispatcher, orderSvc)

	httpapi.StartServer(serverCfg.Addr, httpapi.NewRouter(handler))
}
