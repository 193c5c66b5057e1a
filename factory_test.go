package wpfs_test

import (
	"errors"
	"testing"

	"github.com/gobeaver/wpfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unwrapper interface {
	Unwrap() wpfs.Service
}

// layers returns the concrete types from the outermost decorator inwards.
func layers(svc wpfs.Service) []string {
	var out []string
	for svc != nil {
		out = append(out, typeName(svc))
		u, ok := svc.(unwrapper)
		if !ok {
			break
		}
		svc = u.Unwrap()
	}
	return out
}

func typeName(v any) string {
	switch v.(type) {
	case *wpfs.BaseReader:
		return "BaseReader"
	case *wpfs.HookableReader:
		return "HookableReader"
	case *wpfs.GuardedReader:
		return "GuardedReader"
	case *wpfs.BaseAction:
		return "BaseAction"
	case *wpfs.HookableAction:
		return "HookableAction"
	case *wpfs.GuardedAction:
		return "GuardedAction"
	case *wpfs.BaseAuditor:
		return "BaseAuditor"
	case *wpfs.GuardedAuditor:
		return "GuardedAuditor"
	case *wpfs.AdvancedFS:
		return "AdvancedFS"
	case *wpfs.HookableAdvanced:
		return "HookableAdvanced"
	case *wpfs.GuardedAdvanced:
		return "GuardedAdvanced"
	default:
		return "other"
	}
}

func TestFactoryDecoratorStack(t *testing.T) {
	tests := []struct {
		name     string
		guarded  bool
		hookable bool
		want     []string
	}{
		{"plain", false, false, []string{"BaseReader"}},
		{"hookable", false, true, []string{"HookableReader", "BaseReader"}},
		{"guarded", true, false, []string{"GuardedReader", "BaseReader"}},
		{"both", true, true, []string{"GuardedReader", "HookableReader", "BaseReader"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, nil)
			fx.settings.SetGuarded(tt.guarded)
			fx.settings.SetHookable(tt.hookable)

			svc, err := fx.factory.Create(wpfs.KindReader)
			require.NoError(t, err)
			assert.Equal(t, tt.want, layers(svc))
			assert.Equal(t, wpfs.KindReader, svc.Kind())
		})
	}
}

func TestFactoryCachesPerSettings(t *testing.T) {
	fx := newFixture(t, nil)

	first, err := fx.factory.Create(wpfs.KindAction)
	require.NoError(t, err)
	again, err := fx.factory.Create(wpfs.KindAction)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, fx.factory.Len())

	fx.settings.SetGuarded(true)
	guarded, err := fx.factory.Create(wpfs.KindAction)
	require.NoError(t, err)
	assert.NotSame(t, first, guarded)
	assert.Equal(t, []string{"GuardedAction", "BaseAction"}, layers(guarded))
	assert.Equal(t, 2, fx.factory.Len())

	fx.settings.SetGuarded(false)
	back, err := fx.factory.Create(wpfs.KindAction)
	require.NoError(t, err)
	assert.Same(t, first, back)

	fx.factory.Reset()
	assert.Equal(t, 0, fx.factory.Len())
}

func TestFactoryUnsupportedKind(t *testing.T) {
	fx := newFixture(t, nil)

	_, err := fx.factory.Create(wpfs.Kind("FSBaseUploader"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, wpfs.ErrUnsupportedKind))
	assert.Contains(t, err.Error(), "the requested instance type FSBaseUploader is not supported")
	assert.Equal(t, 0, fx.factory.Len())
}

func TestFactoryTypedAccessors(t *testing.T) {
	fx := newFixture(t, nil)
	fx.settings.SetGuarded(true)
	fx.settings.SetHookable(true)

	r := fx.reader(t)
	assert.Equal(t, wpfs.KindReader, r.Kind())
	assert.Equal(t, wpfs.KindAction, fx.action(t).Kind())
	assert.Equal(t, wpfs.KindAuditor, fx.auditor(t).Kind())
	assert.Equal(t, wpfs.KindManager, fx.manager(t).Kind())

	adv := fx.advanced(t)
	assert.Equal(t, []string{"GuardedAdvanced", "HookableAdvanced", "AdvancedFS"}, layers(adv))
	assert.Equal(t, 5, fx.factory.Len())
}

func TestDecoratorNames(t *testing.T) {
	assert.Equal(t, "HookableFSReader", wpfs.HookableName(wpfs.KindReader))
	assert.Equal(t, "HookableFSAdvanced", wpfs.HookableName(wpfs.KindAdvanced))
	assert.Equal(t, "GuardedFSBaseManager", wpfs.GuardedName(wpfs.KindManager))
	assert.Equal(t, "GuardedFSAdvanced", wpfs.GuardedName(wpfs.KindAdvanced))
}

func TestDecorateSkipsUnregistered(t *testing.T) {
	name := wpfs.GuardedName(wpfs.KindAuditor)
	wpfs.UnregisterDecorator(name)
	t.Cleanup(func() {
		wpfs.RegisterDecorator(name, func(env *wpfs.Environment, svc wpfs.Service) (wpfs.Service, error) {
			return wpfs.NewGuardedAuditor(env, svc.(wpfs.Auditor)), nil
		})
	})

	fx := newFixture(t, nil)
	svc, err := wpfs.Decorate(fx.env, wpfs.KindAuditor, true, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"BaseAuditor"}, layers(svc))
}

func TestDecorateCustomLayer(t *testing.T) {
	name := wpfs.HookableName(wpfs.KindAuditor)
	var wrapped wpfs.Service
	wpfs.RegisterDecorator(name, func(env *wpfs.Environment, svc wpfs.Service) (wpfs.Service, error) {
		wrapped = svc
		return nil, errors.New("boom")
	})
	t.Cleanup(func() {
		wpfs.RegisterDecorator(name, func(env *wpfs.Environment, svc wpfs.Service) (wpfs.Service, error) {
			return wpfs.NewHookableAuditor(env, svc.(wpfs.Auditor)), nil
		})
	})

	fx := newFixture(t, nil)
	_, err := wpfs.Decorate(fx.env, wpfs.KindAuditor, false, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []string{"BaseAuditor"}, layers(wrapped))
}

func TestCreateHostUnknownMethod(t *testing.T) {
	cfg := testConfig()
	cfg.Method = "ftpext"

	_, _, err := wpfs.CreateHost(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, wpfs.ErrNotSupported))
	assert.Contains(t, wpfs.Drivers(), "memory")
}
