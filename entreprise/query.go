package entreprise

type CategorieEntreprise string

const (
	CategoriePME CategorieEntreprise = "PME"
	CategorieETI CategorieEntreprise = "ETI"
	CategorieGE  CategorieEntreprise = "GE"
)

type EtatAdministratif string

const (
	EtatActif  EtatAdministratif = "A"
	EtatCesse  EtatAdministratif = "C"
	EtatFermee EtatAdministratif = "F"
)

type TypePersonne string

const (
	TypeDirigeant TypePersonne = "dirigeant"
	TypeElu       TypePersonne = "elu"
)

// SearchQuery holds the parameters of the /search endpoint. Nil fields are
// left out of the query string. Ranges documented by the API (per_page <= 25,
// page >= 1, ...) are not checked here.
//
// Multi-value filters (activite_principale, code_postal, departement, ...)
// take a comma separated list, e.g. "01.12Z,28.15Z".
//
// Params emits the fields in declaration order. Callers that need their own
// parameter order build a Params and pass it to Client.Do.
type SearchQuery struct {
	// Q matches names, addresses, managers and elected officials.
	Q *string

	ActivitePrincipale             *string
	CategorieEntreprise            *CategorieEntreprise
	CodeCollectiviteTerritoriale   *string
	ConventionCollectiveRenseignee *bool
	CodePostal                     *string
	CodeCommune                    *string
	Departement                    *string
	Region                         *string
	Epci                           *string
	EgaproRenseignee               *bool

	EstAssociation              *bool
	EstBio                      *bool
	EstCollectiviteTerritoriale *bool
	EstEntrepreneurIndividuel   *bool
	EstEntrepreneurSpectacle    *bool
	EstEss                      *bool
	EstFiness                   *bool
	EstOrganismeFormation       *bool
	EstQualiopi                 *bool
	EstRge                      *bool
	EstSiae                     *bool
	EstServicePublic            *bool
	EstSocieteMission           *bool
	EstUai                      *bool

	EtatAdministratif      *EtatAdministratif
	IDConventionCollective *string
	IDFiness               *string
	IDRge                  *string
	IDUai                  *string
	NatureJuridique        *string

	SectionActivitePrincipale *string
	TrancheEffectifSalarie    *string

	NomPersonne              *string
	PrenomsPersonne          *string
	DateNaissancePersonneMin *Date
	DateNaissancePersonneMax *Date
	TypePersonne             *TypePersonne

	CaMin          *float64
	CaMax          *float64
	ResultatNetMin *float64
	ResultatNetMax *float64

	// LimiteMatchingEtablissements is between 1 and 100, the API defaults to 10.
	LimiteMatchingEtablissements *int
	Minimal                      *bool
	// Include is only honoured by the API when Minimal is true.
	Include            *string
	Page               *int
	PerPage            *int
	PageEtablissements *int
	SortBySize         *bool
}

// Params encodes the query in field declaration order.
func (q SearchQuery) Params() Params {
	var p Params

	setString(&p, "q", q.Q)
	setString(&p, "activite_principale", q.ActivitePrincipale)
	setString(&p, "categorie_entreprise", q.CategorieEntreprise)
	setString(&p, "code_collectivite_territoriale", q.CodeCollectiviteTerritoriale)
	setBool(&p, "convention_collective_renseignee", q.ConventionCollectiveRenseignee)
	setString(&p, "code_postal", q.CodePostal)
	setString(&p, "code_commune", q.CodeCommune)
	setString(&p, "departement", q.Departement)
	setString(&p, "region", q.Region)
	setString(&p, "epci", q.Epci)
	setBool(&p, "egapro_renseignee", q.EgaproRenseignee)

	setBool(&p, "est_association", q.EstAssociation)
	setBool(&p, "est_bio", q.EstBio)
	setBool(&p, "est_collectivite_territoriale", q.EstCollectiviteTerritoriale)
	setBool(&p, "est_entrepreneur_individuel", q.EstEntrepreneurIndividuel)
	setBool(&p, "est_entrepreneur_spectacle", q.EstEntrepreneurSpectacle)
	setBool(&p, "est_ess", q.EstEss)
	setBool(&p, "est_finess", q.EstFiness)
	setBool(&p, "est_organisme_formation", q.EstOrganismeFormation)
	setBool(&p, "est_qualiopi", q.EstQualiopi)
	setBool(&p, "est_rge", q.EstRge)
	setBool(&p, "est_siae", q.EstSiae)
	setBool(&p, "est_service_public", q.EstServicePublic)
	setBool(&p, "est_societe_mission", q.EstSocieteMission)
	setBool(&p, "est_uai", q.EstUai)

	setString(&p, "etat_administratif", q.EtatAdministratif)
	setString(&p, "id_convention_collective", q.IDConventionCollective)
	setString(&p, "id_finess", q.IDFiness)
	setString(&p, "id_rge", q.IDRge)
	setString(&p, "id_uai", q.IDUai)
	setString(&p, "nature_juridique", q.NatureJuridique)

	setString(&p, "section_activite_principale", q.SectionActivitePrincipale)
	setString(&p, "tranche_effectif_salarie", q.TrancheEffectifSalarie)

	setString(&p, "nom_personne", q.NomPersonne)
	setString(&p, "prenoms_personne", q.PrenomsPersonne)
	setDate(&p, "date_naissance_personne_min", q.DateNaissancePersonneMin)
	setDate(&p, "date_naissance_personne_max", q.DateNaissancePersonneMax)
	setString(&p, "type_personne", q.TypePersonne)

	setFloat(&p, "ca_min", q.CaMin)
	setFloat(&p, "ca_max", q.CaMax)
	setFloat(&p, "resultat_net_min", q.ResultatNetMin)
	setFloat(&p, "resultat_net_max", q.ResultatNetMax)

	setInt(&p, "limite_matching_etablissements", q.LimiteMatchingEtablissements)
	setBool(&p, "minimal", q.Minimal)
	setString(&p, "include", q.Include)
	setInt(&p, "page", q.Page)
	setInt(&p, "per_page", q.PerPage)
	setInt(&p, "page_etablissements", q.PageEtablissements)
	setBool(&p, "sort_by_size", q.SortBySize)

	return p
}

// GeoQuery holds the parameters of the /near_point endpoint.
type GeoQuery struct {
	Lat float64
	Lon float64
	// Radius in km, at most 50. The API defaults to 5.
	Radius *float64

	ActivitePrincipale           *string
	SectionActivitePrincipale    *string
	LimiteMatchingEtablissements *int
	Minimal                      *bool
	Include                      *string
	Page                         *int
	PerPage                      *int
	PageEtablissements           *int
	SortBySize                   *bool
}

func (q GeoQuery) Params() Params {
	var p Params

	p.SetFloat("lat", q.Lat)
	p.SetFloat("lon", q.Lon)
	setFloat(&p, "radius", q.Radius)
	setString(&p, "activite_principale", q.ActivitePrincipale)
	setString(&p, "section_activite_principale", q.SectionActivitePrincipale)
	setInt(&p, "limite_matching_etablissements", q.LimiteMatchingEtablissements)
	setBool(&p, "minimal", q.Minimal)
	setString(&p, "include", q.Include)
	setInt(&p, "page", q.Page)
	setInt(&p, "per_page", q.PerPage)
	setInt(&p, "page_etablissements", q.PageEtablissements)
	setBool(&p, "sort_by_size", q.SortBySize)

	return p
}
