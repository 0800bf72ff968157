package constants

const (
	ViewProfiles          = "view_profiles"
	ManageOrgProfile      = "manage_org_profile"
	UploadOrgMedia        = "upload_org_media"
	ManageVolunteerSkills = "manage_volunteer_skills"
	GenerateContent       = "generate_content"
	GenerateDonationQR    = "generate_donation_qr"
)
