package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"food-order-assistant/internal/domain"
)

type CatalogService struct {
	repo  CatalogRepository
	cache CatalogCache
}

func NewCatalogService(repo CatalogRepository, cache CatalogCache) *CatalogService {
	return &CatalogService{repo: repo, cache: cache}
}

// Search returns every open restaurant matching the optional area and
// cuisine substring filters, each paired with its available menu items.
// An empty filter matches everything.
func (s *CatalogService) Search(ctx context.Context, area, cuisine string) ([]domain.RestaurantWithMenu, error) {
	var key string
	if s.cache != nil {
		key = s.cache.SearchKey(area, cuisine)
		var cached []domain.RestaurantWithMenu
		if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
			log.Warn().Err(err).Msg("catalog cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	restaurants, err := s.repo.SearchRestaurants(area, cuisine)
	if err != nil {
		return nil, err
	}

	results := []domain.RestaurantWithMenu{}
	for _, rest := range restaurants {
		menu, err := s.repo.ListMenuItems(rest.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, domain.RestaurantWithMenu{Restaurant: rest, Menu: menu})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, results); err != nil {
			log.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return results, nil
}

// ListMenu returns the available items for one restaurant. An unknown
// restaurant id yields an empty list, not an error.
func (s *CatalogService) ListMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	if s.cache != nil {
		key := s.cache.MenuKey(restaurantID)
		var cached []domain.MenuItem
		if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
			log.Warn().Err(err).Msg("catalog cache read failed")
		} else if hit {
			return cached, nil
		}
		menu, err := s.repo.ListMenuItems(restaurantID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, menu); err != nil {
			log.Warn().Err(err).Msg("catalog cache write failed")
		}
		return menu, nil
	}
	return s.repo.ListMenuItems(restaurantID)
}

var _ CatalogServiceInterface = (*CatalogService)(nil)
