package validator

import (
	"errors"
	"strings"
	"testing"

	"deskly/pkg/logger"
	"deskly/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWorkspace() *model.Workspace {
	return &model.Workspace{
		OwnerID:   "owner-1",
		Name:      "Canal Loft",
		City:      "Amsterdam",
		Address:   "Prinsengracht 1",
		Capacity:  12,
		PriceUnit: model.PriceUnitDay,
		Price:     150,
	}
}

func TestWorkspaceValidator_Validate(t *testing.T) {
	v := NewWorkspaceValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(ws *model.Workspace)
		wantField string
	}{
		{name: "valid", mutate: func(*model.Workspace) {}},
		{name: "missing name", mutate: func(ws *model.Workspace) { ws.Name = "" }, wantField: "name"},
		{name: "unknown price unit", mutate: func(ws *model.Workspace) { ws.PriceUnit = "year" }, wantField: "price_unit"},
		{name: "negative price", mutate: func(ws *model.Workspace) { ws.Price = -1 }, wantField: "price"},
		{name: "capacity too large", mutate: func(ws *model.Workspace) { ws.Capacity = 5000 }, wantField: "capacity"},
		{name: "long description", mutate: func(ws *model.Workspace) { ws.Description = strings.Repeat("x", 2001) }, wantField: "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := validWorkspace()
			tt.mutate(ws)

			err := v.Validate(ws)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Contains(t, verrs.Details(), tt.wantField)
		})
	}
}

func TestWorkspaceValidator_ValidateUpdate(t *testing.T) {
	v := NewWorkspaceValidator(logger.Discard())

	assert.NoError(t, v.ValidateUpdate(&model.WorkspaceUpdate{}))

	negative := -3
	err := v.ValidateUpdate(&model.WorkspaceUpdate{Capacity: &negative, PriceUnit: "decade"})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
	assert.Equal(t, "price_unit must be one of: hour day week month", verrs.Details()["price_unit"])
}
