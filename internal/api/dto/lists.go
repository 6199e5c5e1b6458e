package dto

// PubUpload is one pub row in an uploaded list. Name and postcode are
// required for scheduling; the rest travel through untouched.
type PubUpload struct {
	Name        string `json:"name"`
	Postcode    string `json:"postcode"`
	LastVisited string `json:"last_visited,omitempty"`
	RTM         string `json:"rtm,omitempty"`
	Landlord    string `json:"landlord,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type UploadListRequest struct {
	Tier     string      `json:"tier"`
	FileName string      `json:"file_name"`
	Deadline string      `json:"deadline,omitempty"`
	Pubs     []PubUpload `json:"pubs"`
}

type UploadListResponse struct {
	Tier     string `json:"tier"`
	FileName string `json:"file_name"`
	Added    int    `json:"added"`
}

type ListPubsResponse struct {
	Lists map[string][]PubResponse `json:"lists"`
}

type PubResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Postcode    string `json:"postcode"`
	Priority    string `json:"priority"`
	LastVisited string `json:"last_visited,omitempty"`
	RTM         string `json:"rtm,omitempty"`
	Landlord    string `json:"landlord,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
	FileName    string `json:"file_name,omitempty"`
}
