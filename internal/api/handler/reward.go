package handler

import (
	"context"
	"fmt"

	"starjar/internal/models"
	"starjar/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupReward struct {
	container *do.Injector
}

func (gr *groupReward) List(c echo.Context) error {
	if _, err := resolveFamilyMember(c); err != nil {
		return abort(c, err)
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	rewards, err := data.FetchRewards(c.Request().Context(), c.Param("familyId"))
	return respondList(c, rewards, err)
}

func (gr *groupReward) Create(c echo.Context) error {
	user, err := resolveParent(c)
	if err != nil {
		return abort(c, err)
	}

	var reward models.Reward
	if err := c.Bind(&reward); err != nil {
		return abort(c, fmt.Errorf("%w: %v", services.ErrInvalidInput, err))
	}
	if user.Role != models.RoleAdmin && (user.FamilyID == nil || *user.FamilyID != reward.FamilyID) {
		return abort(c, fmt.Errorf("%w: not a member of this family", services.ErrForbidden))
	}
	reward.CreatedBy = user.ID

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	created, err := data.CreateReward(c.Request().Context(), &reward)
	return respondData(c, created, err)
}

func (gr *groupReward) Update(c echo.Context) error {
	id := c.Param("id")
	if _, err := resolveParentOfResource(c, gr.container, func(ctx context.Context, own services.ResourceOwnership) (string, error) {
		return own.RewardFamily(ctx, id)
	}); err != nil {
		return abort(c, err)
	}

	var patch models.RewardPatch
	if err := c.Bind(&patch); err != nil {
		return abort(c, fmt.Errorf("%w: %v", services.ErrInvalidInput, err))
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	updated, err := data.UpdateReward(c.Request().Context(), id, patch)
	return respondData(c, updated, err)
}

func (gr *groupReward) Delete(c echo.Context) error {
	id := c.Param("id")
	if _, err := resolveParentOfResource(c, gr.container, func(ctx context.Context, own services.ResourceOwnership) (string, error) {
		return own.RewardFamily(ctx, id)
	}); err != nil {
		return abort(c, err)
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	err = data.DeleteReward(c.Request().Context(), id)
	return respondNoContent(c, err)
}
