package generators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/bootforge/cli/internal/configschema"
	"go.eggybyte.com/bootforge/core/errors"
	"go.eggybyte.com/bootforge/testingx"
)

func TestBatch(t *testing.T) {
	g := newGenerator(t)
	reqs := []BatchRequest{
		{Source: "a.yaml", Raw: &configschema.Raw{ProjectName: "alpha", PackagePath: "com.a", TechStack: configschema.RawTechStack{Persistence: "JPA"}}},
		{Source: "b.yaml", Raw: &configschema.Raw{ProjectName: "", PackagePath: "com.b"}},
		{Source: "c.yaml", Raw: &configschema.Raw{ProjectName: "gamma", PackagePath: "com.c", TechStack: configschema.RawTechStack{Persistence: "MYBATIS"}}},
		{Source: "d.yaml", Raw: &configschema.Raw{ProjectName: "delta", PackagePath: "com.d"}},
		{Source: "e.yaml"},
	}

	results := g.Batch(context.Background(), reqs, 2)
	require.Len(t, results, len(reqs))
	for i, r := range results {
		assert.Equal(t, reqs[i].Source, r.Source)
		assert.True(t, (r.Err == nil) != (r.Result == nil), r.Source)
	}

	assert.Equal(t, "alpha", results[0].Result.Config.ProjectName)
	assert.Equal(t, "gamma", results[2].Result.Config.ProjectName)
	testingx.AssertError(t, results[1].Err, errors.CodeInvalidArgument)
	testingx.AssertError(t, results[3].Err, errors.CodeFailedPrecondition)
	testingx.AssertError(t, results[4].Err, errors.CodeInvalidArgument)

	failed := Failed(results)
	require.Len(t, failed, 3)
	assert.Equal(t, "b.yaml", failed[0].Source)
}

func TestBatchMatchesSequential(t *testing.T) {
	g := newGenerator(t)
	raw := &configschema.Raw{ProjectName: "alpha", PackagePath: "com.a", TechStack: configschema.RawTechStack{Persistence: "JPA", Cache: []string{"REDIS"}}}

	want, err := g.GenerateRaw(context.Background(), raw)
	require.NoError(t, err)

	reqs := make([]BatchRequest, 8)
	for i := range reqs {
		reqs[i] = BatchRequest{Source: "same", Raw: raw}
	}
	for _, r := range g.Batch(context.Background(), reqs, 0) {
		require.NoError(t, r.Err)
		assert.Equal(t, want.Files, r.Result.Files)
	}
}
