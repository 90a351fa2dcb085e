package domain

type Response struct {
	ChatID int64
	Text   string
	Photo  *Photo
	Err    error
}

type Photo struct {
	Ref ImageRef
}
