package event

// Args holds the coerced literal parameters of a binding, in authored order.
// Values are string, int, float64 or bool according to the signature the
// callable was registered with.
type Args []any

func (a Args) String(i int) string { return a[i].(string) }

func (a Args) Int(i int) int { return a[i].(int) }

func (a Args) Float(i int) float64 { return a[i].(float64) }

func (a Args) Bool(i int) bool { return a[i].(bool) }
