package dto

// CalculRequest carries the multipart form fields of a calculation request.
// The three workbooks travel as file parts (produits, exclusions, remises).
type CalculRequest struct {
	DateDebut string `form:"date_debut" validate:"required,datepromo"`
	DateFin   string `form:"date_fin" validate:"required,datepromo"`
	// BasePrix and Format fall back to the server configuration when blank.
	BasePrix string `form:"base_prix" validate:"omitempty,oneof=achat_option revient"`
	Format   string `form:"format" validate:"omitempty,oneof=csv xlsx"`
}

// CalculResponse is the run summary returned after a computation and by the
// status endpoint. Journal mirrors the action log the original tool displayed.
type CalculResponse struct {
	ID              string            `json:"id"`
	Promus          int               `json:"promus"`
	MargesSignalees int               `json:"marges_signalees"`
	Exclus          int               `json:"exclus"`
	DateDebut       string            `json:"date_debut"`
	DateFin         string            `json:"date_fin"`
	BasePrix        string            `json:"base_prix"`
	Format          string            `json:"format"`
	Journal         []string          `json:"journal"`
	CreeLe          string            `json:"cree_le"`
	Fichiers        map[string]string `json:"fichiers"`
}
