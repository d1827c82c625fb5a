package gateway

import (
	"fmt"

	"github.com/raushankrgupta/tryon-studio/models"
)

const modelPrompt = `
You are a fashion photography AI. Turn the person in this image into a full-body fashion model photo suitable for an e-commerce website.
The background must be a clean, neutral studio backdrop (light gray, #f0f0f0).
The person should have a neutral, professional model expression.
Preserve the person's identity, unique features, and body type, but place them in a standard, relaxed standing model pose.
The final image must be photorealistic. Return ONLY the final image.
`

const backgroundPrompt = `
Remove the background from this garment or accessory photo.
Keep the item exactly as it is: shape, color, texture, logos and stitching must not change.
Place it on a plain pure white background with no shadows, people, mannequins or hangers.
Return ONLY the final image.
`

const tryOnPrompt = `
You are an expert virtual try-on AI. You will be given a 'model image' and a 'garment image'.
Create a new photorealistic image where the person from the 'model image' is wearing the clothing from the 'garment image'.

Rules:
1. Completely remove and replace the clothing item worn by the person with the new garment. No part of the original clothing (collars, sleeves, patterns) may remain visible where the new garment covers it.
2. Preserve the model: the person's face, hair, body shape and pose must remain unchanged.
3. Preserve the background: the entire background must be preserved perfectly.
4. Apply the garment realistically, adapting it to the pose with natural folds, shadows and lighting consistent with the scene.
5. Return ONLY the final, edited image. Do not include any text.
`

const accessoryPrompt = `
You are an expert virtual try-on AI. You will be given a 'model image' and an 'accessory image'.
Create a new photorealistic image where the person from the 'model image' is wearing the accessory from the 'accessory image'.

Rules:
1. Add the accessory on top of the current outfit. Do not remove or change any clothing the person is already wearing.
2. Place it where it is naturally worn (hats on the head, bags on the shoulder or in hand, glasses on the face, jewelry on the neck, ears or wrists).
3. Preserve the person's face, hair, body shape, pose and the entire background.
4. Scale, shade and light the accessory consistently with the scene.
5. Return ONLY the final, edited image. Do not include any text.
`

const videoPrompt = "The fashion model in this image slowly turns and poses naturally for the camera, showing the outfit from several angles. Keep the person, the clothes and the studio background unchanged."

func composePrompt(category models.Category) string {
	if category == models.CategoryAccessory {
		return accessoryPrompt
	}
	return tryOnPrompt
}

func posePrompt(instruction string) string {
	return fmt.Sprintf(`
You are an expert fashion photographer AI. Take this image and regenerate it from a different perspective.
The person, clothing, and background style must remain identical.
The new perspective should be: "%s".
Return ONLY the final image.
`, instruction)
}
