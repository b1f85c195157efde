package domain

// Identity — аутентифицированный пользователь, выданный сервисом аутентификации.
type Identity struct {
	UserID  string
	Email   string
	IsAdmin bool
}
