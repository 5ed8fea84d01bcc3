package transport

import "time"

// OrderDraft is the partially filled intake form a dispatcher is working
// on. Every field is optional; the draft exists so a browser crash or tab
// switch loses nothing.
type OrderDraft struct {
	ClientName         string `json:"clientName,omitempty"`
	ClientPhone        string `json:"clientPhone,omitempty"`
	Urgency            string `json:"urgency,omitempty"`
	ServiceType        string `json:"serviceType,omitempty"`
	Area               string `json:"area,omitempty"`
	FullAddress        string `json:"fullAddress,omitempty"`
	Orientir           string `json:"orientir,omitempty"`
	ProblemDescription string `json:"problemDescription,omitempty"`
	DispatcherNote     string `json:"dispatcherNote,omitempty"`
	PreferredDate      string `json:"preferredDate,omitempty"`
	CalloutFee         *int64 `json:"calloutFee,omitempty"`
	InitialPrice       *int64 `json:"initialPrice,omitempty"`
}

// Empty reports whether the draft carries nothing worth persisting.
func (d OrderDraft) Empty() bool {
	return d.ClientName == "" && d.ClientPhone == "" && d.Urgency == "" &&
		d.ServiceType == "" && d.Area == "" && d.FullAddress == "" &&
		d.Orientir == "" && d.ProblemDescription == "" && d.DispatcherNote == "" &&
		d.PreferredDate == "" && d.CalloutFee == nil && d.InitialPrice == nil
}

type SaveDraftRequest struct {
	Draft OrderDraft `json:"draft"`
}

type DraftResponse struct {
	Draft   *OrderDraft `json:"draft"`
	SavedAt *time.Time  `json:"savedAt,omitempty"`
}

// RecentAddress is one address suggestion. The area rides along so the
// intake form can prefill both fields from a single pick.
type RecentAddress struct {
	Area        string `json:"area,omitempty"`
	FullAddress string `json:"fullAddress"`
}

type RecentAddressesResponse struct {
	Addresses []RecentAddress `json:"addresses"`
}
