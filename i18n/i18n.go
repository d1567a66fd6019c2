// Package i18n holds the French/English message catalogue used for API errors
// and client notifications.
package i18n

import (
	"context"
	"strings"
)

// Default is the language used when nothing else matches.
const Default = "fr"

type ctxKey struct{}

var catalog = map[string]map[string]string{
	"fr": {
		"required":              "Requis",
		"invalid_email":         "Email invalide",
		"invalid_value":         "Valeur invalide",
		"out_of_range":          "Hors limites",
		"too_short":             "Trop court",
		"invalid_json":          "JSON invalide",
		"invalid_id":            "Identifiant invalide",
		"validation_failed":     "Données invalides",
		"unauthorized":          "Non autorisé",
		"token_required":        "Token d'accès requis",
		"invalid_token":         "Token invalide ou expiré",
		"invalid_credentials":   "Email ou mot de passe incorrect",
		"email_exists":          "Cet email est déjà utilisé",
		"invalid_role":          "Rôle invalide",
		"internal_error":        "Erreur serveur",
		"user_not_found":        "Utilisateur non trouvé",
		"company_not_found":     "Entreprise non trouvée",
		"call_not_found":        "Appel non trouvé",
		"appointment_not_found": "Rendez-vous non trouvé",
		"user_deleted":          "Utilisateur supprimé avec succès",
		"company_deleted":       "Entreprise supprimée avec succès",
		"call_deleted":          "Appel supprimé avec succès",
		"appointment_deleted":   "Rendez-vous supprimé avec succès",
		"user_created":          "Utilisateur créé",
		"user_updated":          "Utilisateur mis à jour",
		"company_created":       "Entreprise créée",
		"company_updated":       "Entreprise mise à jour",
		"call_created":          "Appel programmé",
		"call_updated":          "Appel mis à jour",
		"appointment_created":   "Rendez-vous créé",
		"appointment_updated":   "Rendez-vous mis à jour",
		"login_success":         "Connexion réussie",
		"session_expired":       "Session expirée, veuillez vous reconnecter",
		"request_failed":        "La requête a échoué",
		"report_title":          "Rapport d'activité",
		"report_overview":       "Vue d'ensemble",
		"report_performance":    "Performance des closers",
	},
	"en": {
		"required":              "Required",
		"invalid_email":         "Invalid email",
		"invalid_value":         "Invalid value",
		"out_of_range":          "Out of range",
		"too_short":             "Too short",
		"invalid_json":          "Invalid JSON",
		"invalid_id":            "Invalid identifier",
		"validation_failed":     "Validation failed",
		"unauthorized":          "Unauthorized",
		"token_required":        "Access token required",
		"invalid_token":         "Invalid or expired token",
		"invalid_credentials":   "Invalid email or password",
		"email_exists":          "Email already in use",
		"invalid_role":          "Invalid role",
		"internal_error":        "Server error",
		"user_not_found":        "User not found",
		"company_not_found":     "Company not found",
		"call_not_found":        "Call not found",
		"appointment_not_found": "Appointment not found",
		"user_deleted":          "User deleted",
		"company_deleted":       "Company deleted",
		"call_deleted":          "Call deleted",
		"appointment_deleted":   "Appointment deleted",
		"user_created":          "User created",
		"user_updated":          "User updated",
		"company_created":       "Company created",
		"company_updated":       "Company updated",
		"call_created":          "Call scheduled",
		"call_updated":          "Call updated",
		"appointment_created":   "Appointment created",
		"appointment_updated":   "Appointment updated",
		"login_success":         "Signed in",
		"session_expired":       "Session expired, please sign in again",
		"request_failed":        "Request failed",
		"report_title":          "Activity report",
		"report_overview":       "Overview",
		"report_performance":    "Closer performance",
	},
}

// T translates code into lang. Unknown languages fall back to French and
// unknown codes are returned as-is.
func T(lang, code string) string {
	if msgs, ok := catalog[Normalize(lang)]; ok {
		if m, ok := msgs[code]; ok {
			return m
		}
	}
	if m, ok := catalog[Default][code]; ok {
		return m
	}
	return code
}

// Supported reports whether lang has a catalogue.
func Supported(lang string) bool {
	_, ok := catalog[strings.ToLower(lang)]
	return ok
}

// Normalize lower-cases lang and trims any region suffix ("en-GB" -> "en").
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}

// DetectLanguage picks the first supported language of an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := part
		if i := strings.Index(tag, ";"); i >= 0 {
			tag = tag[:i]
		}
		if l := Normalize(tag); Supported(l) {
			return l
		}
	}
	return Default
}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFromContext returns the language stored by WithLang, or Default.
func LangFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return Default
}
