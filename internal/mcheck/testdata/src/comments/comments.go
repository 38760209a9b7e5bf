package comments

// A short comment is fine.
func short() {}

/* want "Comment too long" */ // ..........................................................................................

//go:generate echo "a directive is never too long, whatever the length of its arguments"
func directive() {}
