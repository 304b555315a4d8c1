package handler

import (
	"context"
	"fmt"

	"starjar/internal/models"
	"starjar/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupRedemption struct {
	container *do.Injector
}

func (gr *groupRedemption) List(c echo.Context) error {
	user, err := resolveFamilyMember(c)
	if err != nil {
		return abort(c, err)
	}

	userID := c.QueryParam("user_id")
	if user.Role == models.RoleKid {
		userID = user.ID
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	redemptions, err := data.FetchRewardRedemptions(c.Request().Context(), c.Param("familyId"), userID)
	return respondList(c, redemptions, err)
}

func (gr *groupRedemption) Create(c echo.Context) error {
	user, err := ResolveSession(c.Request().Context())
	if err != nil {
		return abort(c, err)
	}

	var redemption models.RewardRedemption
	if err := c.Bind(&redemption); err != nil {
		return abort(c, fmt.Errorf("%w: %v", services.ErrInvalidInput, err))
	}
	if user.Role != models.RoleAdmin && (user.FamilyID == nil || *user.FamilyID != redemption.FamilyID) {
		return abort(c, fmt.Errorf("%w: not a member of this family", services.ErrForbidden))
	}
	if user.Role == models.RoleKid {
		redemption.UserID = user.ID
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	created, err := data.CreateRewardRedemption(c.Request().Context(), &redemption)
	return respondData(c, created, err)
}

func (gr *groupRedemption) Approve(c echo.Context) error {
	id := c.Param("id")
	user, err := resolveParentOfResource(c, gr.container, func(ctx context.Context, own services.ResourceOwnership) (string, error) {
		return own.RewardRedemptionFamily(ctx, id)
	})
	if err != nil {
		return abort(c, err)
	}

	var payload struct {
		Approved   bool   `json:"approved"`
		ApprovedBy string `json:"approvedBy"`
	}
	if err := c.Bind(&payload); err != nil {
		return abort(c, fmt.Errorf("%w: %v", services.ErrInvalidInput, err))
	}
	if payload.ApprovedBy == "" {
		payload.ApprovedBy = user.ID
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	redemption, err := data.ApproveRewardRedemption(c.Request().Context(), id, payload.Approved, payload.ApprovedBy)
	return respondData(c, redemption, err)
}
