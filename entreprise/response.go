package entreprise

import "encoding/json"

// Response is the body returned by /search and /near_point. The API answers
// either with results and pagination or, on 400-like failures, with Erreur.
type Response struct {
	Erreur       string   `json:"erreur,omitempty"`
	Results      []Result `json:"results,omitempty" validate:"required_without=Erreur,dive"`
	TotalResults int      `json:"total_results" validate:"gte=0"`
	Page         int      `json:"page" validate:"gte=0"`
	PerPage      int      `json:"per_page" validate:"gte=0"`
	TotalPages   int      `json:"total_pages" validate:"gte=0"`

	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-"`
	// Raw is the body as received.
	Raw json.RawMessage `json:"-"`
}

// Failed reports whether the API returned an error message.
func (r *Response) Failed() bool {
	return r.Erreur != ""
}

// Result is a legal unit (unite legale) matching the query.
type Result struct {
	Siren                       string `json:"siren" validate:"required,len=9,numeric"`
	NomComplet                  string `json:"nom_complet"`
	NomRaisonSociale            string `json:"nom_raison_sociale"`
	Sigle                       string `json:"sigle,omitempty"`
	NombreEtablissements        int    `json:"nombre_etablissements"`
	NombreEtablissementsOuverts int    `json:"nombre_etablissements_ouverts"`

	Siege *Etablissement `json:"siege,omitempty"`

	DateCreation                Date   `json:"date_creation"`
	DateFermeture               Date   `json:"date_fermeture"`
	TrancheEffectifSalarie      string `json:"tranche_effectif_salarie"`
	AnneeTrancheEffectifSalarie Number `json:"annee_tranche_effectif_salarie"`
	DateMiseAJour               Date   `json:"date_mise_a_jour"`
	CategorieEntreprise         string `json:"categorie_entreprise"`
	CaractereEmployeur          string `json:"caractere_employeur"`
	AnneeCategorieEntreprise    string `json:"annee_categorie_entreprise"`
	EtatAdministratif           string `json:"etat_administratif"`
	NatureJuridique             string `json:"nature_juridique"`
	ActivitePrincipale          string `json:"activite_principale"`
	SectionActivitePrincipale   string `json:"section_activite_principale"`
	// StatutDiffusion is "O" for public data, "P" for partially diffused units.
	StatutDiffusion string `json:"statut_diffusion"`

	MatchingEtablissements []Etablissement    `json:"matching_etablissements,omitempty" validate:"dive"`
	Dirigeants             []Dirigeant        `json:"dirigeants"`
	Finances               map[string]Finance `json:"finances,omitempty"`
	Complements            *Complements       `json:"complements,omitempty"`
}

// Diffusible reports whether the unit data is publicly diffused.
func (r *Result) Diffusible() bool {
	return r.StatutDiffusion == "O"
}

// Etablissement is used for both the head office (siege) and the matching
// establishments. The latter carry a subset of the fields.
type Etablissement struct {
	ActivitePrincipale               string `json:"activite_principale"`
	ActivitePrincipaleRegistreMetier string `json:"activite_principale_registre_metier,omitempty"`
	AnneeTrancheEffectifSalarie      Number `json:"annee_tranche_effectif_salarie,omitempty"`
	Adresse                          string `json:"adresse"`
	CaractereEmployeur               string `json:"caractere_employeur"`
	Cedex                            string `json:"cedex,omitempty"`
	CodePaysEtranger                 string `json:"code_pays_etranger,omitempty"`
	CodePostal                       string `json:"code_postal,omitempty"`
	Commune                          string `json:"commune,omitempty"`
	ComplementAdresse                string `json:"complement_adresse,omitempty"`
	DateCreation                     Date   `json:"date_creation"`
	DateFermeture                    Date   `json:"date_fermeture"`
	DateDebutActivite                Date   `json:"date_debut_activite"`
	DateMiseAJour                    Date   `json:"date_mise_a_jour"`
	Departement                      string `json:"departement,omitempty"`
	DistributionSpeciale             string `json:"distribution_speciale,omitempty"`
	EstSiege                         bool   `json:"est_siege"`
	// EtatAdministratif is "A" (active) or "F" (closed).
	EtatAdministratif      string   `json:"etat_administratif"`
	GeoID                  string   `json:"geo_id,omitempty"`
	IndiceRepetition       string   `json:"indice_repetition,omitempty"`
	Latitude               Number   `json:"latitude"`
	LibelleCedex           string   `json:"libelle_cedex,omitempty"`
	LibelleCommune         string   `json:"libelle_commune"`
	LibelleCommuneEtranger string   `json:"libelle_commune_etranger,omitempty"`
	LibellePaysEtranger    string   `json:"libelle_pays_etranger,omitempty"`
	LibelleVoie            string   `json:"libelle_voie,omitempty"`
	ListeEnseignes         []string `json:"liste_enseignes,omitempty"`
	ListeFiness            []string `json:"liste_finess,omitempty"`
	ListeIdcc              []string `json:"liste_idcc,omitempty"`
	ListeIDBio             []string `json:"liste_id_bio,omitempty"`
	ListeRge               []string `json:"liste_rge,omitempty"`
	ListeUai               []string `json:"liste_uai,omitempty"`
	Longitude              Number   `json:"longitude"`
	NomCommercial          string   `json:"nom_commercial,omitempty"`
	NumeroVoie             string   `json:"numero_voie,omitempty"`
	Region                 string   `json:"region,omitempty"`
	Epci                   string   `json:"epci,omitempty"`
	Siret                  string   `json:"siret" validate:"omitempty,len=14,numeric"`
	TrancheEffectifSalarie string   `json:"tranche_effectif_salarie"`
	TypeVoie               string   `json:"type_voie,omitempty"`
}

// Active reports whether the establishment is still open.
func (e *Etablissement) Active() bool {
	return e.EtatAdministratif == "A"
}

// Dirigeant is either a natural person (nom, prenoms) or a legal person
// (siren, denomination).
type Dirigeant struct {
	Nom              string `json:"nom,omitempty"`
	Prenoms          string `json:"prenoms,omitempty"`
	AnneeDeNaissance string `json:"annee_de_naissance,omitempty"`
	DateDeNaissance  string `json:"date_de_naissance,omitempty"`
	Nationalite      string `json:"nationalite,omitempty"`
	Siren            string `json:"siren,omitempty"`
	Denomination     string `json:"denomination,omitempty"`
	Qualite          string `json:"qualite"`
	TypeDirigeant    string `json:"type_dirigeant"`
}

// FullName returns "prenoms nom" for natural persons and the denomination
// for legal persons.
func (d Dirigeant) FullName() string {
	if d.Nom == "" {
		return d.Denomination
	}

	if d.Prenoms == "" {
		return d.Nom
	}

	return d.Prenoms + " " + d.Nom
}

// Finance holds the yearly figures, keyed by year in Result.Finances.
type Finance struct {
	CA          *float64 `json:"ca"`
	ResultatNet *float64 `json:"resultat_net"`
}

type Complements struct {
	CollectiviteTerritoriale       *CollectiviteTerritoriale `json:"collectivite_territoriale"`
	ConventionCollectiveRenseignee bool                      `json:"convention_collective_renseignee"`
	ListeIdcc                      []string                  `json:"liste_idcc"`
	EgaproRenseignee               bool                      `json:"egapro_renseignee"`
	EstAssociation                 bool                      `json:"est_association"`
	EstBio                         bool                      `json:"est_bio"`
	EstEntrepreneurIndividuel      bool                      `json:"est_entrepreneur_individuel"`
	EstEntrepreneurSpectacle       bool                      `json:"est_entrepreneur_spectacle"`
	EstEss                         bool                      `json:"est_ess"`
	EstFiness                      bool                      `json:"est_finess"`
	EstOrganismeFormation          bool                      `json:"est_organisme_formation"`
	EstQualiopi                    bool                      `json:"est_qualiopi"`
	ListeIDOrganismeFormation      []string                  `json:"liste_id_organisme_formation"`
	EstRge                         bool                      `json:"est_rge"`
	EstSiae                        bool                      `json:"est_siae"`
	EstServicePublic               bool                      `json:"est_service_public"`
	EstSocieteMission              bool                      `json:"est_societe_mission"`
	EstUai                         bool                      `json:"est_uai"`
	IdentifiantAssociation         string                    `json:"identifiant_association,omitempty"`
	StatutBio                      bool                      `json:"statut_bio"`
	StatutEntrepreneurSpectacle    string                    `json:"statut_entrepreneur_spectacle,omitempty"`
	TypeSiae                       string                    `json:"type_siae,omitempty"`
}

type CollectiviteTerritoriale struct {
	CodeInsee string `json:"code_insee"`
	Code      string `json:"code"`
	Niveau    string `json:"niveau"`
	Elus      []Elu  `json:"elus"`
}

// Elu is an elected official of a local authority.
type Elu struct {
	Nom              string `json:"nom"`
	Prenoms          string `json:"prenoms"`
	AnneeDeNaissance string `json:"annee_de_naissance"`
	Fonction         string `json:"fonction"`
	Sexe             string `json:"sexe"`
}
