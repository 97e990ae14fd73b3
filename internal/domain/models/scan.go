package models

// ScanMode is the operator-declared intent for a scanned barcode.
type ScanMode string

const (
	ScanModeDetect   ScanMode = "detect"
	ScanModeAddStock ScanMode = "add"
	ScanModeUseItem  ScanMode = "use"
)

// ScanAction tells the caller what to do next with a resolved barcode.
type ScanAction string

const (
	// ActionPresentChoice asks the operator for a quantity and an explicit add/use decision.
	ActionPresentChoice ScanAction = "present_choice"
	// ActionAddStock asks the operator for a quantity, then calls add-stock.
	ActionAddStock ScanAction = "request_quantity_then_add"
	// ActionUseItem asks the operator for a quantity, then records usage.
	ActionUseItem ScanAction = "request_quantity_then_use"
	// ActionCreateDraft asks the operator to confirm a new item before it is created.
	ActionCreateDraft ScanAction = "create_draft"
)

// ProductInfo is the metadata returned by the external product lookup.
type ProductInfo struct {
	Found       bool   `json:"found"`
	ProductName string `json:"product_name,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Category    string `json:"category,omitempty"`
	Size        string `json:"size,omitempty"`
}

// ScanResolution is the outcome of resolving a barcode.
type ScanResolution struct {
	Action  ScanAction     `json:"action"`
	Barcode string         `json:"barcode"`
	Mode    ScanMode       `json:"mode"`
	Item    *InventoryItem `json:"item,omitempty"`
	Draft   *ItemDraft     `json:"draft,omitempty"`
	Product *ProductInfo   `json:"product,omitempty"`
	// LookupFailed is set when the product lookup errored and the draft is blank.
	LookupFailed bool `json:"lookup_failed,omitempty"`
}

// DraftOutcome is the result of submitting a draft. Exactly one of Item and
// Resolution is set: Item when the draft was created, Resolution when another
// caller created the barcode first and the scan was re-resolved as an add.
type DraftOutcome struct {
	Item       *InventoryItem  `json:"item,omitempty"`
	Resolution *ScanResolution `json:"resolution,omitempty"`
}
