package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/megacloud-mcp/internal/errdefs"
)

type clusterArgs struct {
	Masters  []string `json:"masters" validate:"required,min=1,unique,dive,required"`
	Replicas []string `json:"replicas" validate:"unique,dive,required"`
	MemoryGB int      `json:"max_memory_gb" validate:"gte=1,lte=512"`
	Operator string   `json:"operator,omitempty" validate:"omitempty,oneof=gt ge lt le eq ne"`
	Internal string   `json:"-"`
}

func TestNew(t *testing.T) {
	v := New()
	assert.NotNil(t, v)
	assert.NotNil(t, v.structValidator)
}

func TestStruct_Valid(t *testing.T) {
	v := New()

	err := v.Struct("create_redis_cluster", &clusterArgs{
		Masters:  []string{"hostA"},
		Replicas: []string{"hostB", "hostC"},
		MemoryGB: 4,
		Operator: "gt",
	})
	assert.NoError(t, err)
}

func TestStruct_ReportsJSONNames(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		args    clusterArgs
		field   string
		message string
	}{
		{
			name:    "missing masters",
			args:    clusterArgs{MemoryGB: 4},
			field:   "masters",
			message: "is required",
		},
		{
			name:    "duplicate replicas",
			args:    clusterArgs{Masters: []string{"hostA"}, Replicas: []string{"hostB", "hostB"}, MemoryGB: 4},
			field:   "replicas",
			message: "must not contain duplicates",
		},
		{
			name:    "empty host name",
			args:    clusterArgs{Masters: []string{"hostA"}, Replicas: []string{"hostB", ""}, MemoryGB: 4},
			field:   "replicas[1]",
			message: "is required",
		},
		{
			name:    "memory too small",
			args:    clusterArgs{Masters: []string{"hostA"}},
			field:   "max_memory_gb",
			message: "must be at least 1",
		},
		{
			name:    "bad operator",
			args:    clusterArgs{Masters: []string{"hostA"}, MemoryGB: 4, Operator: "between"},
			field:   "operator",
			message: "must be one of [gt, ge, lt, le, eq, ne]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct("create_redis_cluster", &tt.args)
			require.Error(t, err)
			assert.True(t, errdefs.IsValidation(err))

			var verr *errdefs.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "create_redis_cluster", verr.Tool)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.Equal(t, tt.message, verr.Fields[0].Message)
		})
	}
}

func TestStruct_CollectsEveryField(t *testing.T) {
	v := New()

	err := v.Struct("create_redis_cluster", &clusterArgs{MemoryGB: 1000})
	var verr *errdefs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"masters", "max_memory_gb"}, verr.FieldNames())
	assert.Contains(t, err.Error(), "max_memory_gb: must be at most 512")
}

func TestStruct_NonStruct(t *testing.T) {
	v := New()

	err := v.Struct("broken", "not a struct")
	require.Error(t, err)
	assert.False(t, errdefs.IsValidation(err))
}
