package parser

// cursor walks a fully tokenized input. The whole lookahead state is the
// index, so checkpointing for backtracking is an integer copy.
type cursor struct {
	tokens []Token
	index  int
}

func newCursor(tokens []Token) *cursor {
	return &cursor{tokens: tokens}
}

// peek returns the token n positions ahead without advancing. Past the end
// it returns the EOF token.
func (c *cursor) peek(n int) Token {
	i := c.index + n
	if i >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1]
	}
	return c.tokens[i]
}

// current returns the token at the cursor.
func (c *cursor) current() Token {
	return c.peek(0)
}

// next returns the current token and advances past it.
func (c *cursor) next() Token {
	tok := c.current()
	if c.index < len(c.tokens) {
		c.index++
	}
	return tok
}

// save returns a checkpoint for restore.
func (c *cursor) save() int {
	return c.index
}

// restore rewinds the cursor to a checkpoint taken with save.
func (c *cursor) restore(checkpoint int) {
	c.index = checkpoint
}
