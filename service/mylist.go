package service

import (
	"context"
	"errors"

	"github.com/ncobase/shopfront/data/repository"
	"github.com/ncobase/shopfront/ecode"
	"github.com/ncobase/shopfront/structs"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MyListService handles the wish-list of the resolved user.
type MyListService struct {
	*Deps
}

// NewMyListService creates a new wish-list service.
func NewMyListService(d *Deps) *MyListService {
	return &MyListService{Deps: d}
}

// Add puts a product on the wish-list of userID.
func (s *MyListService) Add(ctx context.Context, userID string, req *structs.AddMyListRequest) (*structs.MyListItem, error) {
	if err := requireFields(
		field{"productId", req.ProductID},
		field{"productTitle", req.ProductTitle},
		field{"image", req.Image},
		field{"brand", req.Brand},
	); err != nil {
		return nil, err
	}
	if req.Price <= 0 {
		return nil, ecode.Validation(ecode.FieldIsInvalid("price")).
			WithFields(map[string]string{"price": ecode.FieldIsInvalid("price")})
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ecode.Unauthorized(ecode.Text(ecode.NoLogin))
	}

	item, err := s.MyList.Add(ctx, &structs.MyListItem{
		UserID:       uid,
		ProductID:    req.ProductID,
		ProductTitle: req.ProductTitle,
		Image:        req.Image,
		Rating:       req.Rating,
		Price:        req.Price,
		OldPrice:     req.OldPrice,
		Discount:     req.Discount,
		Brand:        req.Brand,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ecode.Conflict("product is already in my list")
		}
		return nil, ecode.Dependency("failed to add to my list", err)
	}
	return item, nil
}

// List returns the wish-list of userID.
func (s *MyListService) List(ctx context.Context, userID string) ([]*structs.MyListItem, error) {
	items, err := s.MyList.ListByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, ecode.Unauthorized(ecode.Text(ecode.NoLogin))
		}
		return nil, ecode.Dependency("failed to load my list", err)
	}
	return items, nil
}

// Delete removes an item owned by userID.
func (s *MyListService) Delete(ctx context.Context, userID, itemID string) error {
	if !primitive.IsValidObjectID(itemID) {
		return ecode.Validation(ecode.FieldIsInvalid("id")).
			WithFields(map[string]string{"id": ecode.FieldIsInvalid("id")})
	}

	err := s.MyList.DeleteOwned(ctx, userID, itemID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ecode.NotFound(ecode.NotExist("item"))
	case errors.Is(err, repository.ErrInvalidID):
		return ecode.Unauthorized(ecode.Text(ecode.NoLogin))
	}
	return ecode.Dependency("failed to delete from my list", err)
}
