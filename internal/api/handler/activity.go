package handler

import (
	"context"
	"fmt"

	"starjar/internal/models"
	"starjar/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupActivity struct {
	container *do.Injector
}

func (gr *groupActivity) List(c echo.Context) error {
	if _, err := resolveFamilyMember(c); err != nil {
		return abort(c, err)
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	activities, err := data.FetchActivities(c.Request().Context(), c.Param("familyId"))
	return respondList(c, activities, err)
}

func (gr *groupActivity) Create(c echo.Context) error {
	user, err := resolveParent(c)
	if err != nil {
		return abort(c, err)
	}

	var activity models.Activity
	if err := c.Bind(&activity); err != nil {
		return abort(c, fmt.Errorf("%w: %v", services.ErrInvalidInput, err))
	}
	if user.Role != models.RoleAdmin && (user.FamilyID == nil || *user.FamilyID != activity.FamilyID) {
		return abort(c, fmt.Errorf("%w: not a member of this family", services.ErrForbidden))
	}
	activity.CreatedBy = user.ID

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	created, err := data.CreateActivity(c.Request().Context(), &activity)
	return respondData(c, created, err)
}

func (gr *groupActivity) Update(c echo.Context) error {
	id := c.Param("id")
	if _, err := resolveParentOfResource(c, gr.container, func(ctx context.Context, own services.ResourceOwnership) (string, error) {
		return own.ActivityFamily(ctx, id)
	}); err != nil {
		return abort(c, err)
	}

	var patch models.ActivityPatch
	if err := c.Bind(&patch); err != nil {
		return abort(c, fmt.Errorf("%w: %v", services.ErrInvalidInput, err))
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	updated, err := data.UpdateActivity(c.Request().Context(), id, patch)
	return respondData(c, updated, err)
}

func (gr *groupActivity) Delete(c echo.Context) error {
	id := c.Param("id")
	if _, err := resolveParentOfResource(c, gr.container, func(ctx context.Context, own services.ResourceOwnership) (string, error) {
		return own.ActivityFamily(ctx, id)
	}); err != nil {
		return abort(c, err)
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	err = data.DeleteActivity(c.Request().Context(), id)
	return respondNoContent(c, err)
}
