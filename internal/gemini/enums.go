package gemini

import "encoding/json"

// decodeEnum decodes a JSON string into T. Values outside known decode to
// unknown instead of failing, so new server-side enum members do not break
// response parsing. Non-string JSON is still an error.
func decodeEnum[T ~string](data []byte, known map[T]struct{}, unknown T) (T, bool, error) {
	if string(data) == "null" {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false, err
	}
	v := T(s)
	if _, ok := known[v]; !ok {
		return unknown, true, nil
	}
	return v, true, nil
}

func enumSet[T ~string](values ...T) map[T]struct{} {
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// HarmCategory is the policy category of a safety rating.
type HarmCategory string

const (
	HarmCategoryUnspecified      HarmCategory = "HARM_CATEGORY_UNSPECIFIED"
	HarmCategoryDerogatory       HarmCategory = "HARM_CATEGORY_DEROGATORY"
	HarmCategoryToxicity         HarmCategory = "HARM_CATEGORY_TOXICITY"
	HarmCategoryViolence         HarmCategory = "HARM_CATEGORY_VIOLENCE"
	HarmCategorySexual           HarmCategory = "HARM_CATEGORY_SEXUAL"
	HarmCategoryMedical          HarmCategory = "HARM_CATEGORY_MEDICAL"
	HarmCategoryDangerous        HarmCategory = "HARM_CATEGORY_DANGEROUS"
	HarmCategoryHarassment       HarmCategory = "HARM_CATEGORY_HARASSMENT"
	HarmCategoryHateSpeech       HarmCategory = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategorySexuallyExplicit HarmCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	HarmCategoryDangerousContent HarmCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"
	HarmCategoryCivicIntegrity   HarmCategory = "HARM_CATEGORY_CIVIC_INTEGRITY"
	HarmCategoryUnknown          HarmCategory = "UNKNOWN"
)

var knownHarmCategories = enumSet(
	HarmCategoryUnspecified,
	HarmCategoryDerogatory,
	HarmCategoryToxicity,
	HarmCategoryViolence,
	HarmCategorySexual,
	HarmCategoryMedical,
	HarmCategoryDangerous,
	HarmCategoryHarassment,
	HarmCategoryHateSpeech,
	HarmCategorySexuallyExplicit,
	HarmCategoryDangerousContent,
	HarmCategoryCivicIntegrity,
)

// UnmarshalJSON implements json.Unmarshaler.
func (c *HarmCategory) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeEnum(data, knownHarmCategories, HarmCategoryUnknown)
	if ok {
		*c = v
	}
	return err
}

// HarmProbability is the likelihood a candidate falls in a harm category.
type HarmProbability string

const (
	HarmProbabilityUnspecified HarmProbability = "HARM_PROBABILITY_UNSPECIFIED"
	HarmProbabilityNegligible  HarmProbability = "NEGLIGIBLE"
	HarmProbabilityLow         HarmProbability = "LOW"
	HarmProbabilityMedium      HarmProbability = "MEDIUM"
	HarmProbabilityHigh        HarmProbability = "HIGH"
	HarmProbabilityUnknown     HarmProbability = "UNKNOWN"
)

var knownHarmProbabilities = enumSet(
	HarmProbabilityUnspecified,
	HarmProbabilityNegligible,
	HarmProbabilityLow,
	HarmProbabilityMedium,
	HarmProbabilityHigh,
)

// UnmarshalJSON implements json.Unmarshaler.
func (p *HarmProbability) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeEnum(data, knownHarmProbabilities, HarmProbabilityUnknown)
	if ok {
		*p = v
	}
	return err
}

// FinishReason is why the model stopped generating a candidate.
type FinishReason string

const (
	FinishReasonUnspecified             FinishReason = "FINISH_REASON_UNSPECIFIED"
	FinishReasonStop                    FinishReason = "STOP"
	FinishReasonMaxTokens               FinishReason = "MAX_TOKENS"
	FinishReasonSafety                  FinishReason = "SAFETY"
	FinishReasonRecitation              FinishReason = "RECITATION"
	FinishReasonLanguage                FinishReason = "LANGUAGE"
	FinishReasonOther                   FinishReason = "OTHER"
	FinishReasonBlocklist               FinishReason = "BLOCKLIST"
	FinishReasonProhibitedContent       FinishReason = "PROHIBITED_CONTENT"
	FinishReasonSPII                    FinishReason = "SPII"
	FinishReasonMalformedFunctionCall   FinishReason = "MALFORMED_FUNCTION_CALL"
	FinishReasonImageSafety             FinishReason = "IMAGE_SAFETY"
	FinishReasonImageProhibitedContent  FinishReason = "IMAGE_PROHIBITED_CONTENT"
	FinishReasonImageOther              FinishReason = "IMAGE_OTHER"
	FinishReasonNoImage                 FinishReason = "NO_IMAGE"
	FinishReasonImageRecitation         FinishReason = "IMAGE_RECITATION"
	FinishReasonUnexpectedToolCall      FinishReason = "UNEXPECTED_TOOL_CALL"
	FinishReasonTooManyToolCalls        FinishReason = "TOO_MANY_TOOL_CALLS"
	FinishReasonMissingThoughtSignature FinishReason = "MISSING_THOUGHT_SIGNATURE"
	FinishReasonUnknown                 FinishReason = "UNKNOWN"
)

var knownFinishReasons = enumSet(
	FinishReasonUnspecified,
	FinishReasonStop,
	FinishReasonMaxTokens,
	FinishReasonSafety,
	FinishReasonRecitation,
	FinishReasonLanguage,
	FinishReasonOther,
	FinishReasonBlocklist,
	FinishReasonProhibitedContent,
	FinishReasonSPII,
	FinishReasonMalformedFunctionCall,
	FinishReasonImageSafety,
	FinishReasonImageProhibitedContent,
	FinishReasonImageOther,
	FinishReasonNoImage,
	FinishReasonImageRecitation,
	FinishReasonUnexpectedToolCall,
	FinishReasonTooManyToolCalls,
	FinishReasonMissingThoughtSignature,
)

// UnmarshalJSON implements json.Unmarshaler.
func (r *FinishReason) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeEnum(data, knownFinishReasons, FinishReasonUnknown)
	if ok {
		*r = v
	}
	return err
}

// BlockReason is why a prompt was rejected before generation.
type BlockReason string

const (
	BlockReasonUnspecified       BlockReason = "BLOCK_REASON_UNSPECIFIED"
	BlockReasonSafety            BlockReason = "SAFETY"
	BlockReasonOther             BlockReason = "OTHER"
	BlockReasonBlocklist         BlockReason = "BLOCKLIST"
	BlockReasonProhibitedContent BlockReason = "PROHIBITED_CONTENT"
	BlockReasonImageSafety       BlockReason = "IMAGE_SAFETY"
	BlockReasonUnknown           BlockReason = "UNKNOWN"
)

var knownBlockReasons = enumSet(
	BlockReasonUnspecified,
	BlockReasonSafety,
	BlockReasonOther,
	BlockReasonBlocklist,
	BlockReasonProhibitedContent,
	BlockReasonImageSafety,
)

// UnmarshalJSON implements json.Unmarshaler.
func (r *BlockReason) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeEnum(data, knownBlockReasons, BlockReasonUnknown)
	if ok {
		*r = v
	}
	return err
}

// ModelStage is the release stage reported in a model status.
type ModelStage string

const (
	ModelStageUnspecified  ModelStage = "MODEL_STAGE_UNSPECIFIED"
	ModelStageExperimental ModelStage = "EXPERIMENTAL"
	ModelStagePreview      ModelStage = "PREVIEW"
	ModelStageStable       ModelStage = "STABLE"
	ModelStageLegacy       ModelStage = "LEGACY"
	ModelStageRetired      ModelStage = "RETIRED"
	ModelStageUnknown      ModelStage = "UNKNOWN"
)

var knownModelStages = enumSet(
	ModelStageUnspecified,
	ModelStageExperimental,
	ModelStagePreview,
	ModelStageStable,
	ModelStageLegacy,
	ModelStageRetired,
)

// UnmarshalJSON implements json.Unmarshaler.
func (s *ModelStage) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeEnum(data, knownModelStages, ModelStageUnknown)
	if ok {
		*s = v
	}
	return err
}
