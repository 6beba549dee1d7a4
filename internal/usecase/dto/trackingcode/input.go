package trackingcodedto

type CreateTrackingCodeInput struct {
	Code        string
	OwnerID     string
	DisplayName string
	Afp         string
}
