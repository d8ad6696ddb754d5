package resultstore

import (
	"strconv"
	"strings"
)

const createCompaniesTable = `CREATE TABLE IF NOT EXISTS companies (
	siren TEXT PRIMARY KEY,
	nom_complet TEXT NOT NULL DEFAULT '',
	siret TEXT NOT NULL DEFAULT '',
	adresse TEXT NOT NULL DEFAULT '',
	code_postal TEXT NOT NULL DEFAULT '',
	libelle_commune TEXT NOT NULL DEFAULT '',
	activite_principale TEXT NOT NULL DEFAULT '',
	etat_administratif TEXT NOT NULL DEFAULT '',
	categorie_entreprise TEXT NOT NULL DEFAULT '',
	date_creation TEXT NOT NULL DEFAULT '',
	dirigeants TEXT NOT NULL DEFAULT '',
	pappers_url TEXT NOT NULL DEFAULT '',
	payload TEXT NOT NULL,
	run_id TEXT NOT NULL DEFAULT '',
	query_id TEXT NOT NULL DEFAULT '',
	updated_at TEXT NOT NULL
)`

const upsertCompany = `INSERT INTO companies
	(siren, nom_complet, siret, adresse, code_postal,
	 libelle_commune, activite_principale, etat_administratif, categorie_entreprise, date_creation,
	 dirigeants, pappers_url, payload, run_id, query_id, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (siren) DO UPDATE SET
		nom_complet = excluded.nom_complet,
		siret = excluded.siret,
		adresse = excluded.adresse,
		code_postal = excluded.code_postal,
		libelle_commune = excluded.libelle_commune,
		activite_principale = excluded.activite_principale,
		etat_administratif = excluded.etat_administratif,
		categorie_entreprise = excluded.categorie_entreprise,
		date_creation = excluded.date_creation,
		dirigeants = excluded.dirigeants,
		pappers_url = excluded.pappers_url,
		payload = excluded.payload,
		run_id = excluded.run_id,
		query_id = excluded.query_id,
		updated_at = excluded.updated_at`

const selectCompany = `SELECT
	siren, nom_complet, siret, code_postal, libelle_commune,
	etat_administratif, dirigeants, pappers_url, run_id, query_id
	FROM companies WHERE siren = ?`

const selectPayload = `SELECT payload FROM companies WHERE siren = ?`

const countCompanies = `SELECT COUNT(*) FROM companies`

// rebind turns ? placeholders into $1, $2... for PostgreSQL. Queries never
// carry a literal question mark.
func (s *Store) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}

	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var sb strings.Builder

	sb.Grow(len(query) + 16)

	n := 0

	for _, r := range query {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}

		n++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	}

	return sb.String()
}
