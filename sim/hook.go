package sim

import "sync"

// HookPos names a site where a hookable object invokes its hooks.
type HookPos struct {
	Name string
}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// Hookable defines an object that accept Hooks
type Hookable interface {
	// AcceptHook registers a hook
	AcceptHook(hook Hook)

	// RemoveHook unregisters a hook. Unknown hooks are ignored.
	RemoveHook(hook Hook)

	// NumHooks returns the number of hooks registered
	NumHooks() int
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// HookFunc adapts an ordinary function into a Hook. A HookFunc cannot be
// removed with RemoveHook because functions are not comparable.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// A HookableBase keeps the hooks of a Hookable. Labs are shared by
// concurrent request handlers, so registration and invocation may happen on
// different goroutines. Hooks run outside the lock and may register or
// remove hooks themselves; such changes apply from the next invocation.
type HookableBase struct {
	lock  sync.RWMutex
	hooks []Hook
}

// NewHookableBase creates a HookableBase object
func NewHookableBase() *HookableBase {
	return new(HookableBase)
}

// AcceptHook register a hook
func (h *HookableBase) AcceptHook(hook Hook) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.hooks = append(h.hooks, hook)
}

// RemoveHook unregisters every registration of hook.
func (h *HookableBase) RemoveHook(hook Hook) {
	if _, isFunc := hook.(HookFunc); isFunc {
		return
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	kept := make([]Hook, 0, len(h.hooks))
	for _, registered := range h.hooks {
		if _, isFunc := registered.(HookFunc); isFunc || registered != hook {
			kept = append(kept, registered)
		}
	}

	h.hooks = kept
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	h.lock.RLock()
	defer h.lock.RUnlock()

	return len(h.hooks)
}

// InvokeHook triggers the registered hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	h.lock.RLock()
	hooks := h.hooks
	h.lock.RUnlock()

	for _, hook := range hooks {
		hook.Func(ctx)
	}
}
