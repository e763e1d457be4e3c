package views

type AuthFormProps struct {
	Name  string
	Email string
	Error string
}
