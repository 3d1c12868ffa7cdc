package global

// CtxKey namespaces values stored on a context.Context so this package's
// keys never collide with a key some other package might set.
type CtxKey string
