// File: teleka/handlers/bundle.go
package handlers

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Places  *PlacesHandler
	Pricing *PricingHandler
	Account *AccountHandler
	Admin   *AdminHandler

	// AdminToken is the static bearer token accepted on admin routes.
	AdminToken string
	// StaticDir serves the booking and admin pages.
	StaticDir string
}
