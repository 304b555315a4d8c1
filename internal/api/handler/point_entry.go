package handler

import (
	"context"
	"fmt"

	"starjar/internal/models"
	"starjar/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupPointEntry struct {
	container *do.Injector
}

func (gr *groupPointEntry) List(c echo.Context) error {
	user, err := resolveFamilyMember(c)
	if err != nil {
		return abort(c, err)
	}

	// kids only ever see their own entries
	userID := c.QueryParam("user_id")
	if user.Role == models.RoleKid {
		userID = user.ID
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	entries, err := data.FetchPointEntries(c.Request().Context(), c.Param("familyId"), userID)
	return respondList(c, entries, err)
}

func (gr *groupPointEntry) Create(c echo.Context) error {
	user, err := ResolveSession(c.Request().Context())
	if err != nil {
		return abort(c, err)
	}

	var entry models.PointEntry
	if err := c.Bind(&entry); err != nil {
		return abort(c, fmt.Errorf("%w: %v", services.ErrInvalidInput, err))
	}
	if user.Role != models.RoleAdmin && (user.FamilyID == nil || *user.FamilyID != entry.FamilyID) {
		return abort(c, fmt.Errorf("%w: not a member of this family", services.ErrForbidden))
	}
	// kids submit for themselves, and their entries queue for approval
	if user.Role == models.RoleKid {
		entry.UserID = user.ID
		entry.Status = models.StatusPending
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	created, err := data.CreatePointEntry(c.Request().Context(), &entry)
	return respondData(c, created, err)
}

func (gr *groupPointEntry) Update(c echo.Context) error {
	id := c.Param("id")
	if _, err := resolveParentOfResource(c, gr.container, func(ctx context.Context, own services.ResourceOwnership) (string, error) {
		return own.PointEntryFamily(ctx, id)
	}); err != nil {
		return abort(c, err)
	}

	var patch models.PointEntryPatch
	if err := c.Bind(&patch); err != nil {
		return abort(c, fmt.Errorf("%w: %v", services.ErrInvalidInput, err))
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	updated, err := data.UpdatePointEntry(c.Request().Context(), id, patch)
	return respondData(c, updated, err)
}

func (gr *groupPointEntry) Approve(c echo.Context) error {
	id := c.Param("id")
	user, err := resolveParentOfResource(c, gr.container, func(ctx context.Context, own services.ResourceOwnership) (string, error) {
		return own.PointEntryFamily(ctx, id)
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

	entry, err := data.ApprovePointEntry(c.Request().Context(), id, payload.Approved, payload.ApprovedBy)
	return respondData(c, entry, err)
}
