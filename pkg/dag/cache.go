package dag

import "github.com/google/uuid"

// ExpressionCache is the de-duplicating registry of DAG nodes keyed by
// originating visual item (§4.1). Every key resolves to exactly one node
// across the compiler's lifetime; anonymous nodes — Godley credit/debit
// temporaries, switch-lowering terms — are minted with a synthetic uuid
// key instead of an external one.
type ExpressionCache struct {
	byKey          map[string]*Node
	integralInputs map[string]*Node
}

// NewExpressionCache constructs an empty cache.
func NewExpressionCache() *ExpressionCache {
	return &ExpressionCache{
		byKey:          make(map[string]*Node),
		integralInputs: make(map[string]*Node),
	}
}

// Insert registers node under key. Overwrites silently if called twice for
// the same key — callers are expected to check Exists first per the
// "register before recursing" pattern (§4.2, §9 Design Notes).
func (c *ExpressionCache) Insert(key string, node *Node) {
	c.byKey[key] = node
}

// Exists reports whether key has already been cached.
func (c *ExpressionCache) Exists(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

// Lookup returns the cached node for key, if any.
func (c *ExpressionCache) Lookup(key string) (*Node, bool) {
	n, ok := c.byKey[key]
	return n, ok
}

// InsertAnonymous mints a synthetic key for node, registers it, and
// returns the key. Used for nodes with no originating visual item
// (§4.1: "Anonymous nodes have no external key").
func (c *ExpressionCache) InsertAnonymous(node *Node) string {
	key := "anon:" + uuid.New().String()
	c.byKey[key] = node
	return key
}

// InsertIntegralInput registers node as the IntegralInputVariableDAG for
// the stock identified by valueId (§4.4).
func (c *ExpressionCache) InsertIntegralInput(valueID string, node *Node) {
	c.integralInputs[valueID] = node
}

// GetIntegralInput returns the integral-input node for valueId, if one has
// been built.
func (c *ExpressionCache) GetIntegralInput(valueID string) (*Node, bool) {
	n, ok := c.integralInputs[valueID]
	return n, ok
}

// Size returns the number of keyed (non-integral-input) nodes cached.
func (c *ExpressionCache) Size() int { return len(c.byKey) }
